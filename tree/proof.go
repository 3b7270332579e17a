package tree

import (
	"github.com/hnsd/chaind/core/types"
)

// ProofStep is one internal node crossed while walking to a key: the
// sibling's hash (needed to recompute the parent's hash) and which side
// the proven key descended to.
type ProofStep struct {
	Depth       uint16
	SiblingHash types.Hash
	Sample      types.Hash
	WentRight   bool
}

// Proof is a Merkle proof of membership (Value set) or non-membership
// (Value nil) for a single key, walked from the tree root down to a leaf
// or an empty branch.
type Proof struct {
	Key   types.Hash
	Value []byte
	Steps []ProofStep
}

func prove(st *store, root, key types.Hash) (*Proof, error) {
	proof := &Proof{Key: key}
	hash := root
	for {
		if hash == types.ZeroHash {
			return proof, nil
		}
		n, ok := st.get(hash)
		if !ok {
			return proof, nil
		}
		if n.Kind == kindLeaf {
			if n.Key == key {
				proof.Value = n.Value
			}
			return proof, nil
		}
		wentRight := bitAt(key, n.Depth) == 1
		step := ProofStep{Depth: n.Depth, Sample: n.Sample, WentRight: wentRight}
		if wentRight {
			step.SiblingHash = n.Left
			hash = n.Right
		} else {
			step.SiblingHash = n.Right
			hash = n.Left
		}
		proof.Steps = append(proof.Steps, step)
	}
}

// Verify recomputes the root hash implied by the proof and compares it
// against root, returning whether the proof is internally consistent.
func Verify(root types.Hash, proof *Proof) bool {
	var hash types.Hash
	if proof.Value != nil {
		hash = newLeafNode(proof.Key, proof.Value).hash()
	}
	for i := len(proof.Steps) - 1; i >= 0; i-- {
		step := proof.Steps[i]
		var n *node
		if step.WentRight {
			n = newInternalNode(step.Depth, step.Sample, step.SiblingHash, hash)
		} else {
			n = newInternalNode(step.Depth, step.Sample, hash, step.SiblingHash)
		}
		hash = n.hash()
	}
	return hash == root
}

package tree

import (
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/blake2b"

	"github.com/hnsd/chaind/core/types"
)

// kind tags the two node shapes a 256-bit radix tree can hold.
type kind uint8

const (
	kindLeaf kind = iota + 1
	kindInternal
)

// node is the on-disk, content-addressed representation of one tree node.
// Grounded on trie256p's path-fragment radix design (other_examples):
// rather than one internal node per bit level, an internal node records
// the bit index at which its two subtrees first diverge (Depth) and a
// Sample key drawn from either subtree, so an insert can tell in one
// comparison whether it must descend past this node or splice a new
// internal node above it.
type node struct {
	Kind   kind
	Depth  uint16     // internal: bit index this node tests
	Sample types.Hash // internal: any key present in this node's subtree
	Left   types.Hash // internal: left child (bit 0), zero = empty
	Right  types.Hash // internal: right child (bit 1), zero = empty

	Key   types.Hash // leaf: the full key
	Value []byte     // leaf: the stored value bytes
}

func newLeafNode(key types.Hash, value []byte) *node {
	return &node{Kind: kindLeaf, Key: key, Value: append([]byte(nil), value...)}
}

func newInternalNode(depth uint16, sample types.Hash, left, right types.Hash) *node {
	return &node{Kind: kindInternal, Depth: depth, Sample: sample, Left: left, Right: right}
}

// hash returns the node's content address: the Blake2b-256 digest of its
// RLP encoding, matching the glossary's "256-bit Blake2b Merkle radix
// tree".
func (n *node) hash() types.Hash {
	enc, err := rlp.EncodeToBytes(n)
	if err != nil {
		panic(err)
	}
	return blake2b.Sum256(enc)
}

func encodeNode(n *node) ([]byte, error) {
	return rlp.EncodeToBytes(n)
}

func decodeNode(data []byte) (*node, error) {
	var n node
	if err := rlp.DecodeBytes(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// bitAt returns bit i (0 = most significant bit of byte 0) of a 256-bit
// key, the branching decision at depth i of the tree.
func bitAt(key types.Hash, i uint16) int {
	return int((key[i/8] >> (7 - i%8)) & 1)
}

// firstDiffBit returns the index of the first bit at which a and b
// differ, or 256 if they are identical.
func firstDiffBit(a, b types.Hash) uint16 {
	for i := 0; i < 32; i++ {
		if a[i] != b[i] {
			x := a[i] ^ b[i]
			for j := 0; j < 8; j++ {
				if x&(0x80>>uint(j)) != 0 {
					return uint16(i*8 + j)
				}
			}
		}
	}
	return 256
}

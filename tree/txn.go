package tree

import (
	"github.com/hnsd/chaind/core/types"
)

// Txn is a working transaction over the tree: inserts and removes stage
// new nodes in an in-memory overlay (dirty) without touching the backing
// store until Commit.
type Txn struct {
	store *store
	root  types.Hash
	dirty map[types.Hash]*node
	owner *Tree
}

// load resolves a node hash, preferring the dirty overlay over the
// backing store.
func (tx *Txn) load(hash types.Hash) (*node, bool) {
	if hash == types.ZeroHash {
		return nil, false
	}
	if n, ok := tx.dirty[hash]; ok {
		return n, true
	}
	return tx.store.get(hash)
}

func (tx *Txn) stage(n *node) types.Hash {
	h := n.hash()
	tx.dirty[h] = n
	return h
}

// Get reads key against this transaction's uncommitted working root.
func (tx *Txn) Get(key types.Hash) ([]byte, bool) {
	return get(tx.store, tx.dirty, tx.root, key)
}

func get(st *store, dirty map[types.Hash]*node, root, key types.Hash) ([]byte, bool) {
	hash := root
	for {
		if hash == types.ZeroHash {
			return nil, false
		}
		var n *node
		var ok bool
		if dirty != nil {
			n, ok = dirty[hash]
		}
		if !ok {
			n, ok = st.get(hash)
		}
		if !ok {
			return nil, false
		}
		if n.Kind == kindLeaf {
			if n.Key == key {
				return n.Value, true
			}
			return nil, false
		}
		if bitAt(key, n.Depth) == 0 {
			hash = n.Left
		} else {
			hash = n.Right
		}
	}
}

// Insert stages key → value, replacing any existing value for key.
func (tx *Txn) Insert(key types.Hash, value []byte) {
	tx.root = tx.insert(tx.root, key, value)
}

func (tx *Txn) insert(hash types.Hash, key types.Hash, value []byte) types.Hash {
	if hash == types.ZeroHash {
		return tx.stage(newLeafNode(key, value))
	}
	n, _ := tx.load(hash)
	if n.Kind == kindLeaf {
		if n.Key == key {
			return tx.stage(newLeafNode(key, value))
		}
		diverge := firstDiffBit(n.Key, key)
		newLeaf := tx.stage(newLeafNode(key, value))
		return tx.stage(tx.branch(diverge, n.Key, hash, key, newLeaf))
	}
	diverge := firstDiffBit(n.Sample, key)
	if diverge < n.Depth {
		newLeaf := tx.stage(newLeafNode(key, value))
		return tx.stage(tx.branch(diverge, n.Sample, hash, key, newLeaf))
	}
	if bitAt(key, n.Depth) == 0 {
		newLeft := tx.insert(n.Left, key, value)
		return tx.stage(newInternalNode(n.Depth, n.Sample, newLeft, n.Right))
	}
	newRight := tx.insert(n.Right, key, value)
	return tx.stage(newInternalNode(n.Depth, n.Sample, n.Left, newRight))
}

// branch builds the internal node splitting existingHash (keyed at
// existingKey) from newHash (keyed at newKey) at bit index depth.
func (tx *Txn) branch(depth uint16, existingKey types.Hash, existingHash types.Hash, newKey types.Hash, newHash types.Hash) *node {
	if bitAt(existingKey, depth) == 0 {
		return newInternalNode(depth, existingKey, existingHash, newHash)
	}
	return newInternalNode(depth, existingKey, newHash, existingHash)
}

// Remove stages deletion of key, a no-op if key is absent.
func (tx *Txn) Remove(key types.Hash) {
	newRoot, _ := tx.remove(tx.root, key)
	tx.root = newRoot
}

func (tx *Txn) remove(hash types.Hash, key types.Hash) (types.Hash, bool) {
	if hash == types.ZeroHash {
		return types.ZeroHash, false
	}
	n, _ := tx.load(hash)
	if n.Kind == kindLeaf {
		if n.Key == key {
			return types.ZeroHash, true
		}
		return hash, false
	}
	if bitAt(key, n.Depth) == 0 {
		newLeft, found := tx.remove(n.Left, key)
		if !found {
			return hash, false
		}
		if newLeft == types.ZeroHash {
			return n.Right, true
		}
		return tx.stage(newInternalNode(n.Depth, tx.anyKey(newLeft), newLeft, n.Right)), true
	}
	newRight, found := tx.remove(n.Right, key)
	if !found {
		return hash, false
	}
	if newRight == types.ZeroHash {
		return n.Left, true
	}
	return tx.stage(newInternalNode(n.Depth, tx.anyKey(n.Left), n.Left, newRight)), true
}

// anyKey returns an arbitrary key present under hash, used to refresh an
// internal node's Sample field after a subtree rewrite.
func (tx *Txn) anyKey(hash types.Hash) types.Hash {
	for {
		n, ok := tx.load(hash)
		if !ok {
			return types.ZeroHash
		}
		if n.Kind == kindLeaf {
			return n.Key
		}
		if n.Left != types.ZeroHash {
			hash = n.Left
		} else {
			hash = n.Right
		}
	}
}

// Commit flushes every dirty node to the backing store and advances the
// owning Tree's root pointer. Returns the new root hash.
func (tx *Txn) Commit() (types.Hash, error) {
	batch := tx.store.newBatch()
	for hash, n := range tx.dirty {
		tx.store.put(batch, hash, n)
	}
	if batch.ValueSize() > 0 {
		if err := batch.Write(); err != nil {
			return types.ZeroHash, err
		}
	}
	tx.owner.root = tx.root
	return tx.root, nil
}

// Package tree implements the authenticated tree (component C): a
// 256-bit Blake2b-keyed radix tree mapping name-hash → name-state bytes,
// whose root is committed into block headers at fixed intervals.
//
// Grounded on trie256p's path-fragment node design (other_examples) for
// the crit-bit-style branching shape, and on the teacher's
// trie.Database/trie.Config wiring (core/blockchain.go) for how a Merkle
// tree's backing store plugs into a chain database — re-keyed to this
// spec's Blake2b hashing rather than verkle commitments.
package tree

import (
	"errors"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"

	"github.com/hnsd/chaind/core/types"
)

// ErrNotFound reports an absent key. Snapshot.Prove does not return it:
// an absent key yields a proof with a nil Value.
var ErrNotFound = errors.New("tree: key not found")

// Tree is the authenticated tree's live handle: the node store plus the
// currently-committed root. All mutation happens through a Txn; Tree
// itself only tracks the committed root pointer.
type Tree struct {
	store *store
	root  types.Hash
}

// Open opens (or creates) a tree backed by a leveldb directory at path. An
// empty path opens an in-memory store, used by tests.
func Open(path string) (*Tree, error) {
	if path == "" {
		return &Tree{store: openStore(memorydb.New(), "")}, nil
	}
	st, err := openLevelDBStore(path)
	if err != nil {
		return nil, err
	}
	return &Tree{store: st}, nil
}

// OpenWithDatabase wraps an already-open ethdb.Database as the node store,
// used when the caller wants the tree sharing a process-wide database
// handle instead of its own file.
func OpenWithDatabase(db ethdb.Database) *Tree {
	return &Tree{store: openStore(db, "")}
}

// Close releases the tree's file handles (spec.md §5).
func (t *Tree) Close() error {
	return t.store.close()
}

// Destroy closes and removes the tree's backing store entirely. Compaction
// does not call it; CompactTree removes a stale temp directory itself.
func (t *Tree) Destroy() error {
	return t.store.destroy()
}

// RootHash returns the tree's current in-memory root.
func (t *Tree) RootHash() types.Hash {
	return t.root
}

// Inject rewinds the in-memory root pointer to root, re-synchronizing
// tree state with whatever was last committed to the key-value store
// (spec.md §9, "Shared tree state across batch boundaries"). Any
// in-flight Txn obtained before Inject must be discarded; a fresh Txn must
// be opened afterward.
func (t *Tree) Inject(root types.Hash) {
	t.root = root
}

// Snapshot returns a read-only view of the tree anchored at a historical
// root, independent of the tree's current live root.
func (t *Tree) Snapshot(root types.Hash) *Snapshot {
	return &Snapshot{store: t.store, root: root}
}

// Txn opens a new working transaction anchored at the tree's current
// root. Mutations are only visible to other readers after Commit.
func (t *Tree) Txn() *Txn {
	return &Txn{
		store: t.store,
		root:  t.root,
		dirty: make(map[types.Hash]*node),
		owner: t,
	}
}

// Snapshot is a read-only view of the tree at a fixed historical root.
type Snapshot struct {
	store *store
	root  types.Hash
}

// Get looks up key, returning its stored value and whether it was found.
func (s *Snapshot) Get(key types.Hash) ([]byte, bool) {
	return get(s.store, nil, s.root, key)
}

// Prove returns a Merkle proof that key is present (or absent) at this
// snapshot's root.
func (s *Snapshot) Prove(key types.Hash) (*Proof, error) {
	return prove(s.store, s.root, key)
}

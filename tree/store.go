package tree

import (
	"os"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/core/types"
)

// store is the tree's content-addressed node backend: hash → encoded node
// bytes. Kept separate from both the meta store and the blob store since
// compaction rewrites it wholesale to a new path and swaps it in, an
// operation neither of the other two stores perform.
type store struct {
	db   ethdb.Database
	path string // empty for an in-memory (non-file-backed) store
}

func openStore(db ethdb.Database, path string) *store {
	return &store{db: db, path: path}
}

func (s *store) get(hash types.Hash) (*node, bool) {
	if hash == types.ZeroHash {
		return nil, false
	}
	data, err := s.db.Get(hash[:])
	if err != nil || data == nil {
		return nil, false
	}
	n, err := decodeNode(data)
	if err != nil {
		log.Crit("Failed to decode tree node", "hash", hash, "err", err)
		return nil, false
	}
	return n, true
}

func (s *store) put(batch ethdb.Batch, hash types.Hash, n *node) {
	data, err := encodeNode(n)
	if err != nil {
		log.Crit("Failed to encode tree node", "hash", hash, "err", err)
	}
	if err := batch.Put(hash[:], data); err != nil {
		log.Crit("Failed to stage tree node write", "hash", hash, "err", err)
	}
}

func (s *store) newBatch() ethdb.Batch {
	return s.db.NewBatch()
}

// close releases the store's file handles, required before a compaction
// swap can replace it (spec.md §5, tree txn lifecycle).
func (s *store) close() error {
	return s.db.Close()
}

// destroy closes and removes the store's on-disk files entirely; its only
// caller is Tree.Destroy.
func (s *store) destroy() error {
	if err := s.db.Close(); err != nil {
		return err
	}
	if s.path == "" {
		return nil
	}
	return os.RemoveAll(s.path)
}

// openLevelDBStore opens (or creates) a leveldb-backed node store at path.
func openLevelDBStore(path string) (*store, error) {
	db, err := leveldb.New(path, 16, 16, "chaindb/tree", false)
	if err != nil {
		return nil, err
	}
	return openStore(db, path), nil
}

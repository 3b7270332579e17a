// Package blobstore implements the append-only raw block and undo-record
// store (component B): a second, independent ethdb.Database from the meta
// store, so that block and undo bytes never share a commit with index
// records. Grounded on the teacher's ancient-store batch-commit idiom
// (core/blockchain.go's db.Ancients()/TruncateHead use) for the shape of a
// separately-committed blob store, but keyed by block hash rather than a
// sequential ancient index, since prune() in spec.md §4.H deletes by
// main-chain hash over a height range rather than truncating from a tail.
package blobstore

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/core/types"
)

var (
	blockPrefix = []byte{'b'}
	undoPrefix  = []byte{'u'}
)

func blockKey(hash types.Hash) []byte {
	return append(append([]byte{}, blockPrefix...), hash[:]...)
}

func undoKey(hash types.Hash) []byte {
	return append(append([]byte{}, undoPrefix...), hash[:]...)
}

// Store is the blob store. It has no transactional relationship with the
// meta store; the batch coordinator (chaindb/batch.go) is responsible for
// sequencing blob commits ahead of the key-value commit on every chaindb
// batch.
type Store struct {
	db ethdb.Database
}

// Open wraps a raw ethdb.Database as a blob store.
func Open(db ethdb.Database) *Store {
	return &Store{db: db}
}

// Close releases the underlying database's file handles.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadBlock returns the raw block bytes for hash, or nil if absent (e.g.
// pruned).
func (s *Store) ReadBlock(hash types.Hash) []byte {
	data, err := s.db.Get(blockKey(hash))
	if err != nil {
		return nil
	}
	return data
}

// ReadUndo returns the raw undo-record bytes for a block hash, or nil if
// absent.
func (s *Store) ReadUndo(hash types.Hash) []byte {
	data, err := s.db.Get(undoKey(hash))
	if err != nil {
		return nil
	}
	return data
}

// Batch is a staged set of blob writes and prunes, mirroring the two-phase
// commit the chain mutation engine requires: writes land before the
// key-value batch commits, prunes land after (spec.md §4.G).
type Batch struct {
	db     ethdb.Database
	writes ethdb.Batch
	prunes ethdb.Batch
}

// NewBatch starts a blob-store batch.
func (s *Store) NewBatch() *Batch {
	return &Batch{
		db:     s.db,
		writes: s.db.NewBatch(),
		prunes: s.db.NewBatch(),
	}
}

// WriteBlock stages a raw block write.
func (b *Batch) WriteBlock(hash types.Hash, data []byte) {
	if err := b.writes.Put(blockKey(hash), data); err != nil {
		log.Crit("Failed to stage block write", "hash", hash, "err", err)
	}
}

// WriteUndo stages a raw undo-record write.
func (b *Batch) WriteUndo(hash types.Hash, data []byte) {
	if err := b.writes.Put(undoKey(hash), data); err != nil {
		log.Crit("Failed to stage undo write", "hash", hash, "err", err)
	}
}

// PruneBlock stages deletion of a block's raw bytes. Deleting an
// already-missing key is a no-op in leveldb, which is what makes repeated
// prune passes after a crash safe (spec.md §4.H prune()).
func (b *Batch) PruneBlock(hash types.Hash) {
	if err := b.prunes.Delete(blockKey(hash)); err != nil {
		log.Crit("Failed to stage block prune", "hash", hash, "err", err)
	}
}

// PruneUndo stages deletion of a block's undo bytes.
func (b *Batch) PruneUndo(hash types.Hash) {
	if err := b.prunes.Delete(undoKey(hash)); err != nil {
		log.Crit("Failed to stage undo prune", "hash", hash, "err", err)
	}
}

// CommitWrites flushes staged writes. Must run before the meta store's
// key-value batch commits: a crash after this point but before the
// key-value commit leaves orphan blobs, never missing ones, which is
// recoverable (spec.md §4.G step 1).
func (b *Batch) CommitWrites() error {
	if b.writes.ValueSize() == 0 {
		return nil
	}
	return b.writes.Write()
}

// CommitPrunes flushes staged prunes. Runs last in the commit sequence;
// idempotent, so a failure here is logged and simply retried on the next
// batch (spec.md §4.G step 6, §4.H prune()).
func (b *Batch) CommitPrunes() error {
	if b.prunes.ValueSize() == 0 {
		return nil
	}
	return b.prunes.Write()
}

// Clear discards every staged write and prune without touching the
// database, used when the owning chaindb batch is dropped.
func (b *Batch) Clear() {
	b.writes.Reset()
	b.prunes.Reset()
}

package chaindb

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/blobstore"
	"github.com/hnsd/chaind/core/types"
)

// Batch is the batch coordinator (component G): it spans the meta store,
// blob store, and the two LRU caches plus the versionbit state cache,
// committing all of them in the fixed order spec.md §4.G mandates.
// Grounded on the teacher's db.NewBatch()/batch.Write() commit idiom used
// throughout core/headerchain.go (WriteHeaders, Reorg) and
// core/blockchain.go (writeHeadBlock), generalized to span more than one
// substore.
type Batch struct {
	cdb  *ChainDB
	kv   ethdb.Batch
	blob *blobstore.Batch

	pending     *types.ChainState
	pendingTree *types.TreeState
}

// startBatch opens a new batch. Asserts no batch is already active,
// matching spec.md §4.G's "start() asserts no batch is active" and the
// single-writer concurrency model of §5.
func (cdb *ChainDB) startBatch() (*Batch, error) {
	if cdb.batch != nil {
		return nil, ErrBatchActive
	}
	b := &Batch{
		cdb:         cdb,
		kv:          cdb.meta.NewBatch(),
		pending:     cdb.state.Clone(),
		pendingTree: cdb.treeState.Clone(),
	}
	if cdb.blobs != nil {
		b.blob = cdb.blobs.NewBatch()
	}
	cdb.entries.Start()
	cdb.coins.Start()
	cdb.deployCache.Start()
	cdb.batch = b
	return b, nil
}

// Put stages a raw meta-store write.
func (b *Batch) Put(key, value []byte) error {
	return b.kv.Put(key, value)
}

// Delete stages a raw meta-store delete.
func (b *Batch) Delete(key []byte) error {
	return b.kv.Delete(key)
}

// WriteBlock stages a raw block write in the blob-store batch, a no-op in
// SPV mode where no blob store is opened.
func (b *Batch) WriteBlock(hash types.Hash, data []byte) {
	if b.blob != nil {
		b.blob.WriteBlock(hash, data)
	}
}

// WriteUndo stages a raw undo-record write.
func (b *Batch) WriteUndo(hash types.Hash, data []byte) {
	if b.blob != nil {
		b.blob.WriteUndo(hash, data)
	}
}

// PruneBlock stages a block-bytes deletion.
func (b *Batch) PruneBlock(hash types.Hash) {
	if b.blob != nil {
		b.blob.PruneBlock(hash)
	}
}

// PruneUndo stages an undo-bytes deletion.
func (b *Batch) PruneUndo(hash types.Hash) {
	if b.blob != nil {
		b.blob.PruneUndo(hash)
	}
}

// Drop clears every staged batch and cache overlay and nulls the pending
// state pointers, restoring the pre-batch view (spec.md §4.G "drop()").
func (b *Batch) Drop() {
	b.cdb.entries.Drop()
	b.cdb.coins.Drop()
	b.cdb.deployCache.Drop()
	if b.blob != nil {
		b.blob.Clear()
	}
	b.pending = nil
	b.pendingTree = nil
	b.cdb.batch = nil
}

// Commit runs the exact six-step commit sequence spec.md §4.G requires.
// Any error in steps 1–2 aborts without state mutation, via Drop; the
// caller is expected to retry the whole operation from the same inputs.
func (b *Batch) Commit() error {
	// 1. Commit blob writes first: a later failure only leaves orphan
	// blobs, never missing ones.
	if b.blob != nil {
		if err := b.blob.CommitWrites(); err != nil {
			b.Drop()
			return err
		}
	}
	// 2. Commit the key-value batch atomically.
	if err := b.kv.Write(); err != nil {
		b.Drop()
		return err
	}
	// 3. Swap in the pending chain state, if this batch committed one.
	if b.pending.Committed {
		b.cdb.state = b.pending
	}
	// 4. Swap in the pending tree state, if this batch committed one.
	if b.pendingTree.Committed {
		b.cdb.treeState = b.pendingTree
	}
	// 5. Promote staged cache entries; flush the versionbit state cache.
	b.cdb.entries.Commit()
	b.cdb.coins.Commit()
	b.cdb.deployCache.Commit()
	// 6. Commit blob prunes: idempotent, safe to repeat after a crash.
	if b.blob != nil {
		if err := b.blob.CommitPrunes(); err != nil {
			log.Error("chaindb: blob prune commit failed, will retry next batch", "err", err)
		}
	}
	b.cdb.batch = nil
	return nil
}

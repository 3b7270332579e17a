// Prune (component H): delete historical block and undo blobs older than
// the retention window in one pass, then flip the persisted Prune flag so
// every later connect already knows to prune as it goes (chaindb/connect.go
// pruneBlock).
//
// Grounded on the teacher's core/blockchain.go pruner/freezer interplay:
// ancient data is deleted in its own batch, independent of and ahead of
// any head-pointer update, so a crash mid-prune leaves stale-but-present
// blobs rather than a corrupt index.
package chaindb

import "github.com/hnsd/chaind/core/rawdb"

// Prune deletes every block/undo blob older than keepBlocks past the
// current tip, down to pruneAfterHeight, then marks the database pruned.
// Returns ErrPruneTooSmall if the tip height does not exceed keepBlocks,
// and is otherwise a no-op (false, nil) if the retention window doesn't
// yet reach past pruneAfterHeight. Returns ErrSPVMode / ErrAlreadyPruned
// as preconditions fail (spec.md §4.H).
func (cdb *ChainDB) Prune() (bool, error) {
	if cdb.flags.SPV {
		return false, ErrSPVMode
	}
	if cdb.flags.Prune {
		return false, ErrAlreadyPruned
	}

	tip, ok := cdb.GetEntry(cdb.state.Tip)
	if !ok {
		return false, ErrMissingUndo
	}
	if tip.Height <= cdb.keepBlocks {
		return false, ErrPruneTooSmall
	}
	end := tip.Height - cdb.keepBlocks
	start := cdb.pruneAfterHeight + 1
	if end < start {
		return false, nil
	}

	blob := cdb.blobs.NewBatch()
	for h := start; h <= end; h++ {
		hash, ok := rawdb.ReadHashByHeight(cdb.meta, h)
		if !ok {
			continue
		}
		blob.PruneBlock(hash)
		blob.PruneUndo(hash)
	}
	if err := blob.CommitPrunes(); err != nil {
		return false, err
	}

	flags := *cdb.flags
	flags.Prune = true
	if err := cdb.SaveFlags(flags); err != nil {
		return false, err
	}
	return true, nil
}

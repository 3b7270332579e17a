// Reset (component H): rewind the main chain to an ancestor entry,
// discarding every block after it and every alternate tip, one batch per
// block so a crash mid-reset leaves the chain at a valid, if incomplete,
// rewind point rather than a torn state.
//
// Grounded on the teacher's HeaderChain.SetHead (core/headerchain.go),
// which walks the canonical chain backwards one header at a time,
// deleting canonical-index entries as it goes.
package chaindb

import (
	"github.com/hnsd/chaind/core/rawdb"
	"github.com/hnsd/chaind/core/types"
)

// Reset rewinds the main chain to target, which must already be a
// main-chain ancestor of the current tip. Pruning must be disabled and
// the tree must not have been compacted past target's height, since
// reset needs every intervening block's stored block and undo record and
// the tree roots it rewinds through (spec.md §4.H).
func (cdb *ChainDB) Reset(target *types.ChainEntry) error {
	if cdb.flags.Prune {
		return ErrPrunedReset
	}
	if cdb.treeState.CompactionHeight > target.Height {
		return ErrTreeCompacted
	}
	if !cdb.IsMainChain(target) {
		return ErrNotOnMainChain
	}

	if err := cdb.removeChains(target); err != nil {
		return err
	}

	for cdb.state.Tip != target.Hash {
		tipEntry, ok := cdb.GetEntry(cdb.state.Tip)
		if !ok {
			return ErrMissingUndo
		}

		b, err := cdb.startBatch()
		if err != nil {
			return err
		}

		rawdb.DeleteHeightByHash(b, tipEntry.Hash)
		rawdb.DeleteHashByHeight(b, tipEntry.Height)
		rawdb.DeleteNextHash(b, tipEntry.PrevBlock)
		rawdb.DeleteTip(b, tipEntry.Hash)
		rawdb.WriteTip(b, tipEntry.PrevBlock)
		cdb.entries.EvictHeight(tipEntry.Height)

		if _, err := cdb.removeBlock(b, tipEntry); err != nil {
			b.Drop()
			return err
		}
		rawdb.WriteChainState(b, b.pending.Commit(tipEntry.PrevBlock))

		if err := b.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// removeChains deletes every alternate chain tip record and the height
// records of the entries unique to it, walking each back to its point of
// divergence from the main chain. Their entry records and stored blocks
// are left in place.
func (cdb *ChainDB) removeChains(target *types.ChainEntry) error {
	tips, err := cdb.GetTips()
	if err != nil {
		return err
	}
	for _, tipHash := range tips {
		if tipHash == cdb.state.Tip {
			continue
		}
		if err := cdb.removeChain(tipHash, target); err != nil {
			return err
		}
	}
	return nil
}

// removeChain deletes one alternate branch's `p` and `h` records, walking
// backward from its tip until it reaches a main-chain entry (its fork
// point), or target itself.
func (cdb *ChainDB) removeChain(tipHash types.Hash, target *types.ChainEntry) error {
	hash := tipHash
	for {
		entry, ok := cdb.GetEntry(hash)
		if !ok {
			return nil
		}
		if entry.Hash == target.Hash || cdb.IsMainChain(entry) {
			break
		}

		b, err := cdb.startBatch()
		if err != nil {
			return err
		}
		rawdb.DeleteHeightByHash(b, entry.Hash)
		rawdb.DeleteTip(b, entry.Hash)
		if err := b.Commit(); err != nil {
			return err
		}

		hash = entry.PrevBlock
	}
	return nil
}

// removeBlock disconnects entry and deletes its block/undo blobs
// outright, used by Reset where (unlike a normal Disconnect) the removed
// block can never be reconnected.
func (cdb *ChainDB) removeBlock(b *Batch, entry *types.ChainEntry) (*types.CoinView, error) {
	block, ok := cdb.GetBlock(entry.Hash)
	if !ok {
		return nil, ErrMissingUndo
	}
	view, err := cdb.disconnectBlock(b, entry, block)
	if err != nil {
		return nil, err
	}
	b.PruneBlock(entry.Hash)
	return view, nil
}

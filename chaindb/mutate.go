// Chain mutation engine (component H): save, reconnect, disconnect.
// Grounded on the teacher's HeaderChain.Reorg (canonical-index rewrite)
// and BlockChain.writeHeadBlock for the write-then-commit shape.
package chaindb

import (
	"github.com/hnsd/chaind/core/rawdb"
	"github.com/hnsd/chaind/core/types"
)

// Save stores entry and block. With a nil view this is store-only: the
// entry is recorded as an alternate-chain tip but not connected. With a
// view it additionally connects the block at the current tip (spec.md
// §4.H "save(entry, block, view?)").
func (cdb *ChainDB) Save(entry *types.ChainEntry, block *types.Block, view *types.CoinView) error {
	b, err := cdb.startBatch()
	if err != nil {
		return err
	}

	rawdb.WriteHeightByHash(b, entry.Hash, entry.Height)
	rawdb.WriteEntry(b, entry)
	rawdb.DeleteTip(b, entry.PrevBlock)
	rawdb.WriteTip(b, entry.Hash)

	blockData, err := types.EncodeBlock(block)
	if err != nil {
		b.Drop()
		return err
	}
	b.WriteBlock(entry.Hash, blockData)
	cdb.entries.PutByHash(entry)

	if view != nil {
		rawdb.WriteNextHash(b, entry.PrevBlock, entry.Hash)
		rawdb.WriteHashByHeight(b, entry.Height, entry.Hash)
		cdb.entries.PutHashByHeight(entry.Height, entry.Hash)
		if err := cdb.connectBlock(b, entry, block, view); err != nil {
			b.Drop()
			return err
		}
		rawdb.WriteChainState(b, b.pending.Commit(entry.Hash))
	}

	return b.Commit()
}

// Reconnect connects entry at the current tip. Precondition: entry is not
// genesis and entry.PrevBlock equals the current tip hash (spec.md
// §4.H).
func (cdb *ChainDB) Reconnect(entry *types.ChainEntry, block *types.Block, view *types.CoinView) error {
	if entry.Hash == cdb.genesis.Hash {
		return ErrReconnectParent
	}
	if entry.PrevBlock != cdb.state.Tip {
		return ErrReconnectParent
	}

	b, err := cdb.startBatch()
	if err != nil {
		return err
	}

	rawdb.WriteNextHash(b, entry.PrevBlock, entry.Hash)
	rawdb.WriteHashByHeight(b, entry.Height, entry.Hash)
	cdb.entries.PutByHash(entry)
	cdb.entries.PutHashByHeight(entry.Height, entry.Hash)

	if err := cdb.connectBlock(b, entry, block, view); err != nil {
		b.Drop()
		return err
	}
	rawdb.WriteChainState(b, b.pending.Commit(entry.Hash))

	return b.Commit()
}

// Disconnect removes entry from the main chain, returning the CoinView
// that restores the prior state (spec.md §4.H).
func (cdb *ChainDB) Disconnect(entry *types.ChainEntry, block *types.Block) (*types.CoinView, error) {
	b, err := cdb.startBatch()
	if err != nil {
		return nil, err
	}

	rawdb.DeleteNextHash(b, entry.PrevBlock)
	rawdb.DeleteHashByHeight(b, entry.Height)
	rawdb.DeleteTip(b, entry.Hash)
	rawdb.WriteTip(b, entry.PrevBlock)
	cdb.entries.EvictHeight(entry.Height)

	view, err := cdb.disconnectBlock(b, entry, block)
	if err != nil {
		b.Drop()
		return nil, err
	}
	rawdb.WriteChainState(b, b.pending.Commit(entry.PrevBlock))

	if err := b.Commit(); err != nil {
		return nil, err
	}
	return view, nil
}

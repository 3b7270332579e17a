// UTXO and name-state application (component I). Grounded on
// other_examples' bchd utxocache.go connectTransactions/
// disconnectTransactions shape (iterate outputs/inputs, mirror spend/add
// in reverse) for the value-accounting half; the name-tree half has no
// teacher analogue and follows spec.md §4.I literally.
package chaindb

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/core/rawdb"
	"github.com/hnsd/chaind/core/types"
)

// connectBlock applies a connected block's transactions to the working
// batch: value accounting against pending state, coin-set mutation in
// view, tx/address indexing, undo recording, and the name-tree update.
func (cdb *ChainDB) connectBlock(b *Batch, entry *types.ChainEntry, block *types.Block, view *types.CoinView) error {
	for txIndex, tx := range block.Transactions {
		if !tx.IsCoinbase() {
			for _, in := range tx.Inputs {
				ve, ok := view.GetEntry(in.Previous)
				if !ok {
					log.Crit("chaindb: connectBlock missing view entry for input", "outpoint", in.Previous)
					continue
				}
				if !ve.Coin.Output.Covenant.IsLocked() {
					b.pending.Spend(ve.Coin.Output)
				}
				view.Undo.Push(in.Previous, ve.Coin)
				view.SpendEntry(in.Previous)
			}
		}

		txHash := tx.Hash()
		for i, out := range tx.Outputs {
			if out.IsUnspendable() {
				continue
			}
			cov := out.Covenant
			switch {
			case cov.IsRegister():
				b.pending.Burn(out)
			case cov.IsLocked():
				// bookkeeping-only; no value-counter change.
			case cov.IsClaim():
				if cov.ClaimSequence() == 1 {
					b.pending.Add(out)
				}
			default:
				b.pending.Add(out)
			}
			view.AddEntry(types.Outpoint{Hash: txHash, Index: uint32(i)}, types.CoinEntry{
				Height:   entry.Height,
				Coinbase: tx.IsCoinbase(),
				Output:   out,
			})
		}

		cdb.indexTX(b, tx, txHash, view, entry, uint32(txIndex))
	}

	if err := cdb.saveView(b, view); err != nil {
		return err
	}
	if !view.Bits.IsEmpty() {
		rawdb.WriteBitField(b, view.Bits)
	}
	if !view.Undo.IsEmpty() {
		data, err := types.EncodeUndoCoins(&view.Undo)
		if err != nil {
			return err
		}
		b.WriteUndo(entry.Hash, data)
	}
	cdb.pruneBlock(b, entry)

	return cdb.connectNames(b, view, entry)
}

// disconnectBlock reverses connectBlock, rebuilding the CoinView a caller
// needs to restore prior state: undo coins restored, outputs un-added,
// REGISTER burns reversed, indices removed, names reverted.
//
// The spec names only the per-input undo-coin mirroring explicitly; to
// make the round-trip bit-for-bit (spec.md §8's disconnect round-trip and
// its value/coin-count invariants) this also reverses each output's own
// contribution symmetrically with connectBlock, a design decision
// recorded in DESIGN.md.
func (cdb *ChainDB) disconnectBlock(b *Batch, entry *types.ChainEntry, block *types.Block) (*types.CoinView, error) {
	view := types.NewCoinView()

	var undo *types.UndoCoins
	if raw := cdb.blobs.ReadUndo(entry.Hash); raw != nil {
		u, err := types.DecodeUndoCoins(raw)
		if err != nil {
			return nil, err
		}
		undo = u
	} else {
		undo = &types.UndoCoins{}
	}

	for i := len(block.Transactions) - 1; i >= 0; i-- {
		tx := block.Transactions[i]
		txHash := tx.Hash()

		for j := len(tx.Outputs) - 1; j >= 0; j-- {
			out := tx.Outputs[j]
			if out.IsUnspendable() {
				continue
			}
			cov := out.Covenant
			switch {
			case cov.IsRegister():
				b.pending.Unburn(out)
			case cov.IsLocked():
			case cov.IsClaim():
				if cov.ClaimSequence() == 1 {
					b.pending.Spend(out)
				}
			default:
				b.pending.Spend(out)
			}
			view.Entries[types.Outpoint{Hash: txHash, Index: uint32(j)}] = &types.ViewEntry{Coin: types.CoinEntry{Output: out, Height: entry.Height}, Spent: true}
		}

		// A coinbase has no previous outputs to restore. No bitfield change
		// is reverted on disconnect: the `f` record is left as it is.
		if !tx.IsCoinbase() {
			for j := len(tx.Inputs) - 1; j >= 0; j-- {
				in := tx.Inputs[j]
				undoEntry, ok := undo.Pop()
				if !ok {
					log.Crit("chaindb: disconnectBlock undo coins data inconsistency")
					continue
				}
				if !undoEntry.Coin.Output.Covenant.IsLocked() {
					b.pending.Add(undoEntry.Coin.Output)
				}
				view.Entries[in.Previous] = &types.ViewEntry{Coin: undoEntry.Coin}
			}
		}

		cdb.unindexTX(b, tx, txHash, view)
	}

	if !undo.IsEmpty() {
		log.Crit("chaindb: disconnectBlock undo coins data inconsistency: stream not empty")
	}

	if err := cdb.saveView(b, view); err != nil {
		return nil, err
	}
	b.PruneUndo(entry.Hash)

	if err := cdb.disconnectNames(b, view, entry); err != nil {
		return nil, err
	}
	return view, nil
}

// saveView persists every dirty coin in view: spent entries delete their
// `c` record (and evict the coin cache), live entries are (re)written.
func (cdb *ChainDB) saveView(b *Batch, view *types.CoinView) error {
	for op, ve := range view.Entries {
		if ve.Spent {
			rawdb.DeleteCoin(b, op.Hash, op.Index)
			cdb.coins.Delete(op)
			continue
		}
		rawdb.WriteCoin(b, op.Hash, op.Index, &ve.Coin)
		cdb.coins.Put(op, &ve.Coin)
	}
	return nil
}

// indexTX updates the optional tx-by-hash and coins/tx-by-address
// indices, gated by ChainFlags.IndexTX / IndexAddress (spec.md §6).
func (cdb *ChainDB) indexTX(b *Batch, tx *types.Transaction, txHash types.Hash, view *types.CoinView, entry *types.ChainEntry, index uint32) {
	if !cdb.flags.IndexTX {
		return
	}
	rawdb.WriteTXMeta(b, txHash, &types.TXMeta{BlockHash: entry.Hash, Height: entry.Height, Index: index})

	if !cdb.flags.IndexAddress {
		return
	}
	if !tx.IsCoinbase() {
		for _, in := range tx.Inputs {
			ve, ok := view.GetEntry(in.Previous)
			if !ok || len(ve.Coin.Output.Address) == 0 {
				continue
			}
			rawdb.WriteAddrTx(b, types.AddressHash(ve.Coin.Output.Address), txHash)
		}
	}
	for i, out := range tx.Outputs {
		if len(out.Address) == 0 {
			continue
		}
		addrHash := types.AddressHash(out.Address)
		rawdb.WriteAddrTx(b, addrHash, txHash)
		rawdb.WriteAddrCoin(b, addrHash, txHash, uint32(i))
	}
}

// unindexTX reverses indexTX for a disconnected transaction. The spent
// input coins it needs no longer exist in the meta store by the time this
// runs (saveView hasn't restored them yet), so it reads them out of view,
// which the input-reversal loop above has already populated for every
// input of this tx.
func (cdb *ChainDB) unindexTX(b *Batch, tx *types.Transaction, txHash types.Hash, view *types.CoinView) {
	if !cdb.flags.IndexTX {
		return
	}
	rawdb.DeleteTXMeta(b, txHash)

	if !cdb.flags.IndexAddress {
		return
	}
	if !tx.IsCoinbase() {
		for _, in := range tx.Inputs {
			ve, ok := view.GetEntry(in.Previous)
			if !ok || len(ve.Coin.Output.Address) == 0 {
				continue
			}
			rawdb.DeleteAddrTx(b, types.AddressHash(ve.Coin.Output.Address), txHash)
		}
	}
	for i, out := range tx.Outputs {
		if len(out.Address) == 0 {
			continue
		}
		addrHash := types.AddressHash(out.Address)
		rawdb.DeleteAddrTx(b, addrHash, txHash)
		rawdb.DeleteAddrCoin(b, addrHash, txHash, uint32(i))
	}
}

// pruneBlock deletes a now-unreachable block and undo blob once the chain
// has advanced keepBlocks past it, a no-op unless pruning is enabled
// (spec.md §4.I).
func (cdb *ChainDB) pruneBlock(b *Batch, entry *types.ChainEntry) {
	if !cdb.flags.Prune {
		return
	}
	if int64(entry.Height)-int64(cdb.keepBlocks) <= int64(cdb.pruneAfterHeight) {
		return
	}
	pruneHeight := entry.Height - cdb.keepBlocks
	hash, ok := rawdb.ReadHashByHeight(cdb.meta, pruneHeight)
	if !ok {
		return
	}
	b.PruneBlock(hash)
	b.PruneUndo(hash)
}

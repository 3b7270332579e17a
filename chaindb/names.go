package chaindb

import (
	"github.com/hnsd/chaind/core/rawdb"
	"github.com/hnsd/chaind/core/types"
)

// saveNames stages view.Names into the tree's long-lived working
// transaction (cdb.nameTxn): a nil state removes the name, anything else
// is inserted. The txn accumulates across every block regardless of
// height, since a non-interval block's names still belong in the tree —
// only the commit to the backing store is deferred. When entry.Height
// lands on a tree-commit boundary, either the snapshot is restored
// (revert) or the accumulated txn is committed, and the new root is
// persisted under `s`; either way the txn is rebuilt, anchored on
// whatever root is now live — spec.md §4.I's "_saveNames" and §5's "txn
// must be rebuilt after every tree.inject".
func (cdb *ChainDB) saveNames(b *Batch, view *types.CoinView, entry *types.ChainEntry, revert bool) error {
	for nameHash, state := range view.Names {
		if state == nil {
			cdb.nameTxn.Remove(nameHash)
			continue
		}
		data, err := types.EncodeNameState(state)
		if err != nil {
			return err
		}
		cdb.nameTxn.Insert(nameHash, data)
	}

	if !cdb.onTreeInterval(entry.Height) {
		return nil
	}

	if revert {
		cdb.tree.Inject(entry.TreeRoot)
		cdb.nameTxn = cdb.tree.Txn()
		b.pendingTree.Commit(entry.TreeRoot, entry.Height-1)
		rawdb.WriteTreeState(b, b.pendingTree)
		return nil
	}

	root, err := cdb.nameTxn.Commit()
	if err != nil {
		return err
	}
	cdb.nameTxn = cdb.tree.Txn()
	b.pendingTree.Commit(root, entry.Height)
	rawdb.WriteTreeState(b, b.pendingTree)
	return nil
}

// connectNames writes the `w(height)` undo record derived from the
// view's staged name changes (captured against the tree as committed
// before this block), then applies them to the tree via saveNames.
func (cdb *ChainDB) connectNames(b *Batch, view *types.CoinView, entry *types.ChainEntry) error {
	if len(view.Names) > 0 {
		undo := &types.NameUndo{}
		snapshot := cdb.tree.Snapshot(cdb.treeState.TreeRoot)
		for nameHash := range view.Names {
			var previous *types.NameState
			if data, ok := snapshot.Get(nameHash); ok {
				previous, _ = types.DecodeNameState(data)
			}
			undo.Deltas = append(undo.Deltas, types.NameDelta{NameHash: nameHash, Previous: previous})
		}
		rawdb.WriteNameUndo(b, entry.Height, undo)
	}
	return cdb.saveNames(b, view, entry, false)
}

// disconnectNames reads `w(height)`, applies each delta to the name state
// visible through the view (so the following saveNames call writes the
// reverted value), deletes `w(height)`, then reverts the tree.
func (cdb *ChainDB) disconnectNames(b *Batch, view *types.CoinView, entry *types.ChainEntry) error {
	undo := rawdb.ReadNameUndo(cdb.meta, entry.Height)
	if undo != nil {
		for _, delta := range undo.Deltas {
			view.SetName(delta.NameHash, delta.Previous)
		}
		rawdb.DeleteNameUndo(b, entry.Height)
	}
	return cdb.saveNames(b, view, entry, true)
}

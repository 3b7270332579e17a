package rawdb

import (
	"testing"

	"github.com/hnsd/chaind/core/types"
)

func TestTXMetaRoundTrip(t *testing.T) {
	db := newTestDB()
	txHash := types.NameHash("tx")
	if HasTXMeta(db, txHash) {
		t.Fatalf("tx meta present before write")
	}
	WriteTXMeta(db, txHash, &types.TXMeta{BlockHash: types.NameHash("block"), Height: 5, Index: 2})
	if !HasTXMeta(db, txHash) {
		t.Fatalf("tx meta not present after write")
	}
	got := ReadTXMeta(db, txHash)
	if got == nil || got.Height != 5 || got.Index != 2 {
		t.Fatalf("ReadTXMeta = %+v, want height 5 index 2", got)
	}
	DeleteTXMeta(db, txHash)
	if HasTXMeta(db, txHash) {
		t.Fatalf("tx meta still present after delete")
	}
}

func TestAddrTxRange(t *testing.T) {
	db := newTestDB()
	addrHash := types.NameHash("addr")
	tx1, tx2 := types.NameHash("tx1"), types.NameHash("tx2")
	WriteAddrTx(db, addrHash, tx1)
	WriteAddrTx(db, addrHash, tx2)

	seen := map[types.Hash]bool{}
	if err := RangeAddrTx(db, addrHash, func(txid types.Hash) bool { seen[txid] = true; return true }); err != nil {
		t.Fatalf("RangeAddrTx: %v", err)
	}
	if !seen[tx1] || !seen[tx2] || len(seen) != 2 {
		t.Fatalf("RangeAddrTx returned %v, want {%v, %v}", seen, tx1, tx2)
	}

	DeleteAddrTx(db, addrHash, tx1)
	seen = map[types.Hash]bool{}
	RangeAddrTx(db, addrHash, func(txid types.Hash) bool { seen[txid] = true; return true })
	if seen[tx1] || !seen[tx2] {
		t.Fatalf("deleted entry still present: %v", seen)
	}
}

func TestAddrCoinRange(t *testing.T) {
	db := newTestDB()
	addrHash := types.NameHash("addr")
	txid := types.NameHash("tx")
	WriteAddrCoin(db, addrHash, txid, 0)
	WriteAddrCoin(db, addrHash, txid, 1)

	var ops []types.Outpoint
	err := RangeAddrCoin(db, addrHash, func(txHash types.Hash, index uint32) bool {
		ops = append(ops, types.Outpoint{Hash: txHash, Index: index})
		return true
	})
	if err != nil {
		t.Fatalf("RangeAddrCoin: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("RangeAddrCoin returned %d entries, want 2", len(ops))
	}

	DeleteAddrCoin(db, addrHash, txid, 0)
	ops = nil
	RangeAddrCoin(db, addrHash, func(txHash types.Hash, index uint32) bool {
		ops = append(ops, types.Outpoint{Hash: txHash, Index: index})
		return true
	})
	if len(ops) != 1 || ops[0].Index != 1 {
		t.Fatalf("after delete got %v, want only index 1", ops)
	}
}

func TestNameUndoRoundTrip(t *testing.T) {
	db := newTestDB()
	if ReadNameUndo(db, 10) != nil {
		t.Fatalf("name undo present before write")
	}
	undo := &types.NameUndo{Deltas: []types.NameDelta{{NameHash: types.NameHash("a")}}}
	WriteNameUndo(db, 10, undo)
	got := ReadNameUndo(db, 10)
	if got == nil || len(got.Deltas) != 1 {
		t.Fatalf("ReadNameUndo = %+v, want 1 delta", got)
	}
	DeleteNameUndo(db, 10)
	if ReadNameUndo(db, 10) != nil {
		t.Fatalf("name undo still present after delete")
	}
}

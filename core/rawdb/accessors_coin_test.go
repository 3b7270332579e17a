package rawdb

import (
	"testing"

	"github.com/hnsd/chaind/core/types"
)

func TestCoinRoundTrip(t *testing.T) {
	db := newTestDB()
	txid := types.NameHash("tx")
	if HasCoin(db, txid, 0) {
		t.Fatalf("coin present before write")
	}
	coin := &types.CoinEntry{Height: 10, Output: types.Output{Value: 500}}
	WriteCoin(db, txid, 0, coin)
	if !HasCoin(db, txid, 0) {
		t.Fatalf("coin not present after write")
	}
	got := ReadCoin(db, txid, 0)
	if got == nil || got.Output.Value != 500 {
		t.Fatalf("ReadCoin = %+v, want value 500", got)
	}
	// A different index must not alias the same record.
	if HasCoin(db, txid, 1) {
		t.Fatalf("unrelated index reported present")
	}

	DeleteCoin(db, txid, 0)
	if HasCoin(db, txid, 0) {
		t.Fatalf("coin still present after delete")
	}
}

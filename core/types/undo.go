package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// UndoCoinEntry pairs an Outpoint with the CoinEntry it held before being
// spent, so disconnect can restore it.
type UndoCoinEntry struct {
	Outpoint Outpoint
	Coin     CoinEntry
}

// UndoCoins is the ordered list of coins a block consumed, recorded in
// application order: disconnectBlock pops entries off the tail as
// it walks the block's transactions backwards, and the stream must be
// exactly empty once every input has been restored (spec.md §4.I, the
// "Undo coins data inconsistency" assertion).
type UndoCoins struct {
	Entries []UndoCoinEntry
}

// IsEmpty reports whether every undo entry has been consumed.
func (u *UndoCoins) IsEmpty() bool {
	return len(u.Entries) == 0
}

// Push appends a newly-spent coin to the undo stream.
func (u *UndoCoins) Push(op Outpoint, c CoinEntry) {
	u.Entries = append(u.Entries, UndoCoinEntry{Outpoint: op, Coin: c})
}

// Pop removes and returns the last pushed undo entry, the one
// disconnectBlock must apply next when walking a block's inputs in
// reverse.
func (u *UndoCoins) Pop() (UndoCoinEntry, bool) {
	n := len(u.Entries)
	if n == 0 {
		return UndoCoinEntry{}, false
	}
	e := u.Entries[n-1]
	u.Entries = u.Entries[:n-1]
	return e, true
}

// EncodeUndoCoins and DecodeUndoCoins are the blob-store wire format for a
// block's undo record, written under the block's hash (spec.md §6 blob
// store, "writeUndo(hash, bytes)").
func EncodeUndoCoins(u *UndoCoins) ([]byte, error) {
	return rlp.EncodeToBytes(u)
}

func DecodeUndoCoins(data []byte) (*UndoCoins, error) {
	var u UndoCoins
	if err := rlp.DecodeBytes(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

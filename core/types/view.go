package types

// ViewEntry is a CoinEntry staged in a CoinView, tagged with whether it has
// been spent within the view (as opposed to removed from the underlying
// coin set — spent coins are retained in the view so later reads of the
// same transaction, e.g. during indexTX, still see them).
type ViewEntry struct {
	Coin  CoinEntry
	Spent bool
}

// CoinView is the working set a caller assembles before calling
// connectBlock/disconnectBlock: outpoint → coin entries touched by the
// block, an undo log of consumed coins, per-name staged state, and a
// bitfield delta (spec.md §3).
type CoinView struct {
	Entries map[Outpoint]*ViewEntry
	Undo    UndoCoins
	Names   map[Hash]*NameState
	Bits    *BitField
}

// NewCoinView returns an empty view ready for connectBlock/disconnectBlock
// to stage into.
func NewCoinView() *CoinView {
	return &CoinView{
		Entries: make(map[Outpoint]*ViewEntry),
		Names:   make(map[Hash]*NameState),
		Bits:    NewBitField(),
	}
}

// GetEntry returns the staged view entry for an outpoint, if any.
func (v *CoinView) GetEntry(op Outpoint) (*ViewEntry, bool) {
	e, ok := v.Entries[op]
	return e, ok
}

// AddEntry stages a coin as present (unspent) in the view.
func (v *CoinView) AddEntry(op Outpoint, c CoinEntry) {
	v.Entries[op] = &ViewEntry{Coin: c}
}

// SpendEntry marks a staged coin as spent without removing it from the
// view, mirroring the teacher's cache-coherent style of leaving a tombstone
// rather than deleting outright mid-batch.
func (v *CoinView) SpendEntry(op Outpoint) {
	if e, ok := v.Entries[op]; ok {
		e.Spent = true
	}
}

// GetName returns the staged NameState for a name hash, if any (including
// an explicit nil meaning "deleted in this view").
func (v *CoinView) GetName(hash Hash) (*NameState, bool) {
	n, ok := v.Names[hash]
	return n, ok
}

// SetName stages a name-state change (nil removes the name).
func (v *CoinView) SetName(hash Hash, n *NameState) {
	v.Names[hash] = n
}

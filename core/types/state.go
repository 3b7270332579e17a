package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// ChainState is the aggregate counter record persisted under `R`: the tip
// hash plus cumulative transaction, coin, value, and burned counters. A
// batch clones it into `pending` at start and swaps it in on commit
// (spec.md §3, §4.G).
type ChainState struct {
	Tip       Hash
	TxCount   uint64
	CoinCount uint64
	Value     Amount
	Burned    Amount
	Committed bool
}

// Clone returns an independent copy suitable for staging as a batch's
// `pending` state.
func (s *ChainState) Clone() *ChainState {
	c := *s
	c.Committed = false
	return &c
}

// Commit marks the state committed at the given tip and returns itself, so
// callers can write `pending.commit(hash)` directly into the `R` record as
// spec.md's chain mutation engine does throughout §4.H.
func (s *ChainState) Commit(tip Hash) *ChainState {
	s.Tip = tip
	s.Committed = true
	return s
}

// Spend accounts for an input being consumed: decrements the coin counter
// and, unless the output falls in the locked covenant range, subtracts its
// value from the value counter (spec.md §4.I).
func (s *ChainState) Spend(o Output) {
	s.CoinCount--
	if !o.Covenant.IsLocked() {
		s.Value -= o.Value
	}
}

// Add accounts for a new output entering the coin set.
func (s *ChainState) Add(o Output) {
	s.CoinCount++
	if !o.Covenant.IsLocked() {
		s.Value += o.Value
	}
}

// Burn accounts for a REGISTER output's value being permanently burned.
func (s *ChainState) Burn(o Output) {
	s.Burned += o.Value
}

// Unburn reverses Burn, used when disconnecting a block.
func (s *ChainState) Unburn(o Output) {
	s.Burned -= o.Value
}

func EncodeChainState(s *ChainState) ([]byte, error) {
	return rlp.EncodeToBytes(s)
}

func DecodeChainState(data []byte) (*ChainState, error) {
	var s ChainState
	if err := rlp.DecodeBytes(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

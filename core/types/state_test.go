package types

import "testing"

func TestChainStateSpendAddAreInverse(t *testing.T) {
	s := &ChainState{}
	out := Output{Value: 100}
	s.Add(out)
	if s.CoinCount != 1 || s.Value != 100 {
		t.Fatalf("Add: got count=%d value=%d, want 1/100", s.CoinCount, s.Value)
	}
	s.Spend(out)
	if s.CoinCount != 0 || s.Value != 0 {
		t.Fatalf("Spend did not reverse Add: got count=%d value=%d", s.CoinCount, s.Value)
	}
}

func TestChainStateLockedOutputsExcludedFromValue(t *testing.T) {
	s := &ChainState{}
	locked := Output{Value: 100, Covenant: Covenant{Type: CovenantRegister}}
	s.Add(locked)
	if s.Value != 0 {
		t.Fatalf("locked output's value counted: %d", s.Value)
	}
	if s.CoinCount != 1 {
		t.Fatalf("locked output did not increment coin count")
	}
}

func TestChainStateBurnUnburn(t *testing.T) {
	s := &ChainState{}
	out := Output{Value: 50}
	s.Burn(out)
	if s.Burned != 50 {
		t.Fatalf("Burn: got %d, want 50", s.Burned)
	}
	s.Unburn(out)
	if s.Burned != 0 {
		t.Fatalf("Unburn did not reverse Burn: got %d", s.Burned)
	}
}

func TestChainStateCloneIsUncommitted(t *testing.T) {
	s := &ChainState{Tip: NameHash("tip"), Committed: true}
	clone := s.Clone()
	if clone.Committed {
		t.Fatalf("Clone carried over Committed=true")
	}
	clone.Commit(NameHash("new-tip"))
	if s.Tip == clone.Tip {
		t.Fatalf("Clone aliases the original state")
	}
}

package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// NameState is the per-name authenticated record stored only in the tree
// (component C) — never in the meta store — keyed by NameHash(name).
type NameState struct {
	Name           []byte
	Owner          Outpoint
	Height         Height // height the current owning bid was registered
	RenewalHeight  Height
	RegisterHeight Height
	Data           []byte // resource record set by UPDATE
	TransferTo     []byte // pending new address, set by TRANSFER, cleared by FINALIZE
	TransferHeight Height
	Revoked        bool
	Claimed        bool
	Weak           bool
}

// IsNull reports whether this is the absence of a name (used as the
// "null state" sentinel that _saveNames removes from the tree rather than
// inserting).
func (n *NameState) IsNull() bool {
	return n == nil
}

// Clone returns a deep-enough copy for staging into a CoinView without
// aliasing the committed record's byte slices.
func (n *NameState) Clone() *NameState {
	if n == nil {
		return nil
	}
	c := *n
	c.Data = append([]byte(nil), n.Data...)
	c.TransferTo = append([]byte(nil), n.TransferTo...)
	return &c
}

// EncodeNameState and DecodeNameState are the tree-leaf wire format for a
// NameState.
func EncodeNameState(n *NameState) ([]byte, error) {
	return rlp.EncodeToBytes(n)
}

func DecodeNameState(data []byte) (*NameState, error) {
	var n NameState
	if err := rlp.DecodeBytes(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// NameDelta is one name's prior state, captured before a block's
// connectNames mutated it. A nil Previous means the name did not exist
// before this block (disconnect must remove it, not merely restore it).
type NameDelta struct {
	NameHash Hash
	Previous *NameState `rlp:"nil"`
}

// NameUndo is the list of (nameHash, delta) pairs needed to revert every
// name-state change made by one block, persisted in the meta store under
// `w(height)` (spec.md §6).
type NameUndo struct {
	Deltas []NameDelta
}

func EncodeNameUndo(u *NameUndo) ([]byte, error) {
	return rlp.EncodeToBytes(u)
}

func DecodeNameUndo(data []byte) (*NameUndo, error) {
	var u NameUndo
	if err := rlp.DecodeBytes(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

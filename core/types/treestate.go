package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// TreeState is the authenticated tree's own small aggregate record,
// persisted under `s`: the current root, the height it was last committed
// at, and the height it was last compacted to (spec.md §3).
type TreeState struct {
	TreeRoot         Hash
	CommitHeight     Height
	CompactionHeight Height
	Committed        bool
}

// Clone returns an independent copy suitable for staging as a batch's
// `pendingTreeState`.
func (s *TreeState) Clone() *TreeState {
	c := *s
	c.Committed = false
	return &c
}

// Commit marks the tree state committed at the given root/height and
// returns itself, mirroring ChainState.Commit.
func (s *TreeState) Commit(root Hash, height Height) *TreeState {
	s.TreeRoot = root
	s.CommitHeight = height
	s.Committed = true
	return s
}

// Compact records a tree compaction to the given root/height.
func (s *TreeState) Compact(root Hash, height Height) *TreeState {
	s.TreeRoot = root
	s.CommitHeight = height
	s.CompactionHeight = height
	s.Committed = true
	return s
}

func EncodeTreeState(s *TreeState) ([]byte, error) {
	return rlp.EncodeToBytes(s)
}

func DecodeTreeState(data []byte) (*TreeState, error) {
	var s TreeState
	if err := rlp.DecodeBytes(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

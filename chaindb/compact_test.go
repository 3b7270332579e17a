package chaindb

import (
	"testing"

	"github.com/ethereum/go-ethereum/ethdb/memorydb"

	"github.com/hnsd/chaind/core/types"
)

func TestCompactTreePreservesCurrentNameState(t *testing.T) {
	cfg := testConfig()
	cfg.TreePath = t.TempDir()
	cdb, err := Open(memorydb.New(), memorydb.New(), cfg, types.Header{Time: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cdb.Close()

	buildChainWithNames(t, cdb, 2)

	// CompactTree's precondition is that entry names a root already
	// committed into treeState (entry.Height == treeState.CommitHeight) —
	// build that entry directly from the live committed state rather than
	// reusing a connected block's own header, whose TreeRoot field commits
	// the *previous* interval's root, one generation behind.
	target := &types.ChainEntry{Height: cdb.treeState.CommitHeight, TreeRoot: cdb.TreeRoot()}

	if err := cdb.CompactTree(target); err != nil {
		t.Fatalf("CompactTree: %v", err)
	}

	state, ok := cdb.GetNameStateByName("example")
	if !ok || state == nil {
		t.Fatalf("name state lost after CompactTree")
	}
}

// buildChainWithNames connects n blocks whose coinbase stages a single
// name-state write each time, so the tree accumulates real nodes to
// compact.
func buildChainWithNames(t *testing.T, cdb *ChainDB, n int) []*types.ChainEntry {
	t.Helper()
	entries := []*types.ChainEntry{cdb.Genesis()}
	for i := 0; i < n; i++ {
		prev := entries[len(entries)-1]
		block := coinbaseBlock(prev, []byte("addr"), 1000)
		entry := types.NewChainEntry(block.Header, prev.Height+1)

		view := types.NewCoinView()
		view.SetName(types.NameHash("example"), &types.NameState{Owner: types.Outpoint{Hash: types.NameHash("owner"), Index: 0}})
		if err := cdb.Save(entry, block, view); err != nil {
			t.Fatalf("Save block %d: %v", i+1, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

package chaindb

import (
	"testing"

	"github.com/ethereum/go-ethereum/ethdb/memorydb"

	"github.com/hnsd/chaind/core/types"
)

func TestPruneTooSmallBeforeKeepBlocksWindow(t *testing.T) {
	cfg := testConfig()
	cfg.KeepBlocks = 10
	cdb, err := Open(memorydb.New(), memorydb.New(), cfg, types.Header{Time: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cdb.Close()

	buildChain(t, cdb, 3)

	if _, err := cdb.Prune(); err != ErrPruneTooSmall {
		t.Fatalf("Prune() = %v, want ErrPruneTooSmall", err)
	}
}

func TestPruneRemovesOldBlocksAndSetsFlag(t *testing.T) {
	cfg := testConfig()
	cfg.KeepBlocks = 1
	cfg.PruneAfterHeight = 0
	cdb, err := Open(memorydb.New(), memorydb.New(), cfg, types.Header{Time: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cdb.Close()

	entries := buildChain(t, cdb, 5)

	ok, err := cdb.Prune()
	if err != nil || !ok {
		t.Fatalf("Prune() = %v, %v, want true, nil", ok, err)
	}
	if !cdb.Flags().Prune {
		t.Fatalf("Prune flag not set after Prune()")
	}

	// height 1's block is older than (tip.Height - keepBlocks) = 4, so it
	// must have been pruned; the freshest blocks within the window survive.
	if _, ok := cdb.GetBlock(entries[1].Hash); ok {
		t.Fatalf("old block still retrievable after Prune()")
	}
	if _, ok := cdb.GetBlock(entries[5].Hash); !ok {
		t.Fatalf("tip block missing after Prune()")
	}
}

func TestPruneRejectedInSPVMode(t *testing.T) {
	cfg := testConfig()
	cfg.Flags.SPV = true
	cdb, err := Open(memorydb.New(), nil, cfg, types.Header{Time: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cdb.Close()

	if _, err := cdb.Prune(); err != ErrSPVMode {
		t.Fatalf("Prune() in SPV mode = %v, want ErrSPVMode", err)
	}
}

func TestPruneRejectedWhenAlreadyPruned(t *testing.T) {
	cfg := testConfig()
	cfg.Flags.Prune = true
	cdb, err := Open(memorydb.New(), memorydb.New(), cfg, types.Header{Time: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cdb.Close()

	buildChain(t, cdb, 2)
	if _, err := cdb.Prune(); err != ErrAlreadyPruned {
		t.Fatalf("Prune() = %v, want ErrAlreadyPruned", err)
	}
}

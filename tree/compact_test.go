package tree

import (
	"path/filepath"
	"testing"

	"github.com/hnsd/chaind/core/types"
)

func TestCompactPreservesReachableKeysAndDropsStale(t *testing.T) {
	dir := t.TempDir()
	tr, err := Open(filepath.Join(dir, "live"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tr.Close()

	tx := tr.Txn()
	tx.Insert(types.NameHash("keep-1"), []byte("a"))
	tx.Insert(types.NameHash("keep-2"), []byte("b"))
	if _, err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Stage and commit a second generation that drops keep-2's sibling
	// shape by removing it, leaving stale nodes behind the first root
	// unreachable from the live root.
	tx = tr.Txn()
	tx.Remove(types.NameHash("keep-2"))
	tx.Insert(types.NameHash("keep-3"), []byte("c"))
	root, err := tx.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := tr.Compact(filepath.Join(dir, "compacted")); err != nil {
		t.Fatalf("Compact: %v", err)
	}

	snap := tr.Snapshot(root)
	got, ok := snap.Get(types.NameHash("keep-1"))
	if !ok || string(got) != "a" {
		t.Fatalf("keep-1 missing after compaction: %q, %v", got, ok)
	}
	got, ok = snap.Get(types.NameHash("keep-3"))
	if !ok || string(got) != "c" {
		t.Fatalf("keep-3 missing after compaction: %q, %v", got, ok)
	}
	if _, ok := snap.Get(types.NameHash("keep-2")); ok {
		t.Fatalf("removed key keep-2 resurfaced after compaction")
	}
}

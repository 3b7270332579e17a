package tree

import (
	"os"

	"github.com/ethereum/go-ethereum/ethdb"

	"github.com/hnsd/chaind/core/types"
)

// Compact rewrites the tree's node store to tmpDir, keeping only nodes
// reachable from the current root, then swaps it in as the live store.
// The caller (chaindb.CompactTree) is responsible for the surrounding
// recovery-marker and tree-state bookkeeping described in spec.md §4.H.
func (t *Tree) Compact(tmpDir string) error {
	dst, err := openLevelDBStore(tmpDir)
	if err != nil {
		return err
	}
	batch := dst.newBatch()
	seen := make(map[types.Hash]bool)
	if err := t.copyReachable(t.root, dst, batch, seen); err != nil {
		return err
	}
	if batch.ValueSize() > 0 {
		if err := batch.Write(); err != nil {
			return err
		}
	}

	oldPath := t.store.path
	if err := t.store.close(); err != nil {
		return err
	}
	if err := dst.close(); err != nil {
		return err
	}
	if oldPath != "" {
		if err := os.RemoveAll(oldPath); err != nil {
			return err
		}
		if err := os.Rename(tmpDir, oldPath); err != nil {
			return err
		}
	}
	reopened, err := openLevelDBStore(oldPath)
	if err != nil {
		return err
	}
	t.store = reopened
	return nil
}

func (t *Tree) copyReachable(hash types.Hash, dst *store, batch ethdb.Batch, seen map[types.Hash]bool) error {
	if hash == types.ZeroHash || seen[hash] {
		return nil
	}
	seen[hash] = true
	n, ok := t.store.get(hash)
	if !ok {
		return nil
	}
	dst.put(batch, hash, n)
	if n.Kind == kindInternal {
		if err := t.copyReachable(n.Left, dst, batch, seen); err != nil {
			return err
		}
		if err := t.copyReachable(n.Right, dst, batch, seen); err != nil {
			return err
		}
	}
	return nil
}

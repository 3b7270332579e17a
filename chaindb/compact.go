// CompactTree (component H): rewrite the authenticated tree's node store
// down to only the nodes reachable from a target root, discarding the
// history of every intervening insert/remove. A recovery marker naming the
// target root is persisted first, so a reopen after an interrupted
// compaction injects that root; Open performs no other compaction check.
//
// Grounded on the teacher's triedb compaction path (core/blockchain.go's
// TrieDB().Commit + Cap cycle), generalized to this tree's own
// leveldb-backed node store rather than go-ethereum's path-based trie
// database.
package chaindb

import (
	"os"

	"github.com/hnsd/chaind/core/rawdb"
	"github.com/hnsd/chaind/core/types"
)

// CompactTree rewrites the tree's backing store to hold only nodes
// reachable from entry.TreeRoot, the root as of entry's height. Requires
// entry's tree root to already be committed (entry.Height ==
// treeState.CommitHeight); compaction never runs ahead of what's
// committed (spec.md §4.H compactTree).
func (cdb *ChainDB) CompactTree(entry *types.ChainEntry) error {
	// Step 1: persist a recovery marker naming the target root and the
	// height one below entry's, so a crash mid-compaction is detected by
	// CompactionHeight lagging behind CommitHeight on the next open.
	marker := *cdb.treeState
	marker.TreeRoot = entry.TreeRoot
	marker.CommitHeight = entry.Height - 1
	markerBatch := cdb.meta.NewBatch()
	rawdb.WriteTreeState(markerBatch, &marker)
	if err := markerBatch.Write(); err != nil {
		return err
	}
	cdb.treeState = &marker

	// Step 2: remove any stale temp directory left by an interrupted prior
	// attempt.
	tmpDir := cdb.tmpTreeDir()
	if cdb.treePath != "" {
		if err := os.RemoveAll(tmpDir); err != nil {
			return err
		}
	}

	cdb.tree.Inject(entry.TreeRoot)
	if err := cdb.tree.Compact(tmpDir); err != nil {
		return err
	}
	// Compact swapped in a freshly reopened store, so any txn anchored on
	// the pre-compaction store (including one left dirty mid-interval) is
	// stale; rebuild against the new store and the now-final root.
	cdb.nameTxn = cdb.tree.Txn()

	final := types.TreeState{
		TreeRoot:         entry.TreeRoot,
		CommitHeight:     entry.Height,
		CompactionHeight: entry.Height,
		Committed:        true,
	}
	finalBatch := cdb.meta.NewBatch()
	rawdb.WriteTreeState(finalBatch, &final)
	if err := finalBatch.Write(); err != nil {
		return err
	}
	cdb.treeState = &final
	return nil
}

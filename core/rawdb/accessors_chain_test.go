package rawdb

import (
	"testing"

	"github.com/ethereum/go-ethereum/ethdb/memorydb"

	"github.com/hnsd/chaind/core/types"
)

func newTestDB() *Database {
	return Wrap(memorydb.New())
}

func TestSchemaVersionRoundTrip(t *testing.T) {
	db := newTestDB()
	if _, ok := ReadSchemaVersion(db); ok {
		t.Fatalf("schema version present in empty database")
	}
	WriteSchemaVersion(db, SchemaVersion)
	got, ok := ReadSchemaVersion(db)
	if !ok || got != SchemaVersion {
		t.Fatalf("ReadSchemaVersion = %d, %v, want %d, true", got, ok, SchemaVersion)
	}
}

func TestHeightByHashRoundTrip(t *testing.T) {
	db := newTestDB()
	hash := types.NameHash("block")
	if _, ok := ReadHeightByHash(db, hash); ok {
		t.Fatalf("height present before write")
	}
	WriteHeightByHash(db, hash, 42)
	got, ok := ReadHeightByHash(db, hash)
	if !ok || got != 42 {
		t.Fatalf("ReadHeightByHash = %d, %v, want 42, true", got, ok)
	}
	DeleteHeightByHash(db, hash)
	if _, ok := ReadHeightByHash(db, hash); ok {
		t.Fatalf("height still present after delete")
	}
}

func TestHashByHeightRoundTrip(t *testing.T) {
	db := newTestDB()
	hash := types.NameHash("block")
	WriteHashByHeight(db, 7, hash)
	got, ok := ReadHashByHeight(db, 7)
	if !ok || got != hash {
		t.Fatalf("ReadHashByHeight = %v, %v, want %v, true", got, ok, hash)
	}
	DeleteHashByHeight(db, 7)
	if _, ok := ReadHashByHeight(db, 7); ok {
		t.Fatalf("hash still present after delete")
	}
}

func TestEntryRoundTrip(t *testing.T) {
	db := newTestDB()
	entry := types.NewChainEntry(types.Header{Time: 1}, 3)
	if got := ReadEntry(db, entry.Hash); got != nil {
		t.Fatalf("entry present before write: %+v", got)
	}
	WriteEntry(db, entry)
	got := ReadEntry(db, entry.Hash)
	if got == nil || got.Height != 3 {
		t.Fatalf("ReadEntry = %+v, want height 3", got)
	}
}

func TestTipLifecycle(t *testing.T) {
	db := newTestDB()
	hash := types.NameHash("tip")
	if HasTip(db, hash) {
		t.Fatalf("tip present before write")
	}
	WriteTip(db, hash)
	if !HasTip(db, hash) {
		t.Fatalf("tip not present after write")
	}

	var seen []types.Hash
	if err := RangeTips(db, func(h types.Hash) bool { seen = append(seen, h); return true }); err != nil {
		t.Fatalf("RangeTips: %v", err)
	}
	if len(seen) != 1 || seen[0] != hash {
		t.Fatalf("RangeTips returned %v, want [%v]", seen, hash)
	}

	DeleteTip(db, hash)
	if HasTip(db, hash) {
		t.Fatalf("tip still present after delete")
	}
}

func TestChainStateAndTreeStateRoundTrip(t *testing.T) {
	db := newTestDB()
	if ReadChainState(db) != nil {
		t.Fatalf("chain state present in empty database")
	}
	state := &types.ChainState{Tip: types.NameHash("tip"), TxCount: 5}
	WriteChainState(db, state)
	got := ReadChainState(db)
	if got == nil || got.TxCount != 5 {
		t.Fatalf("ReadChainState = %+v, want TxCount 5", got)
	}

	treeState := &types.TreeState{TreeRoot: types.NameHash("root"), CommitHeight: 9}
	WriteTreeState(db, treeState)
	gotTree := ReadTreeState(db)
	if gotTree == nil || gotTree.CommitHeight != 9 {
		t.Fatalf("ReadTreeState = %+v, want CommitHeight 9", gotTree)
	}
}

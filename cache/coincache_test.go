package cache

import (
	"testing"

	"github.com/hnsd/chaind/core/types"
)

func testOutpoint(name string, index uint32) types.Outpoint {
	return types.Outpoint{Hash: types.NameHash(name), Index: index}
}

func TestCoinCacheGetWithoutStaging(t *testing.T) {
	c := NewCoinCache()
	op := testOutpoint("tx", 0)
	entry := &types.CoinEntry{Height: 1, Output: types.Output{Value: 100}}

	if _, ok := c.Get(op); ok {
		t.Fatalf("coin present before put")
	}
	c.Put(op, entry)
	got, ok := c.Get(op)
	if !ok || got.Output.Value != 100 {
		t.Fatalf("Get = %+v, %v, want value 100, true", got, ok)
	}
}

func TestCoinCacheStagingIsolatesUntilCommit(t *testing.T) {
	c := NewCoinCache()
	op := testOutpoint("tx", 1)
	entry := &types.CoinEntry{Height: 2, Output: types.Output{Value: 200}}

	c.Start()
	c.Put(op, entry)
	if got, ok := c.Get(op); !ok || got.Output.Value != 200 {
		t.Fatalf("staged coin not visible mid-batch: %+v, %v", got, ok)
	}
	c.Commit()
	if got, ok := c.Get(op); !ok || got.Output.Value != 200 {
		t.Fatalf("committed coin not visible after Commit: %+v, %v", got, ok)
	}
}

func TestCoinCacheDropDiscardsStagedWrites(t *testing.T) {
	c := NewCoinCache()
	op := testOutpoint("tx", 2)

	c.Start()
	c.Put(op, &types.CoinEntry{Output: types.Output{Value: 50}})
	c.Drop()

	if _, ok := c.Get(op); ok {
		t.Fatalf("dropped staged coin still visible")
	}
}

func TestCoinCacheStagedTombstoneShadowsCommittedValue(t *testing.T) {
	c := NewCoinCache()
	op := testOutpoint("tx", 3)
	c.Put(op, &types.CoinEntry{Output: types.Output{Value: 1}})

	c.Start()
	c.Delete(op)
	if _, ok := c.Get(op); ok {
		t.Fatalf("staged tombstone failed to shadow committed coin")
	}
	c.Commit()
	if _, ok := c.Get(op); ok {
		t.Fatalf("tombstone did not remove coin after Commit")
	}
}

func TestCoinCacheDeleteWithoutStagingAppliesImmediately(t *testing.T) {
	c := NewCoinCache()
	op := testOutpoint("tx", 4)
	c.Put(op, &types.CoinEntry{Output: types.Output{Value: 1}})

	c.Delete(op)
	if _, ok := c.Get(op); ok {
		t.Fatalf("coin still present after unstaged Delete")
	}
}

func TestCoinCacheDistinctIndicesDoNotAlias(t *testing.T) {
	c := NewCoinCache()
	txHash := types.NameHash("shared-tx")
	opA := types.Outpoint{Hash: txHash, Index: 0}
	opB := types.Outpoint{Hash: txHash, Index: 1}

	c.Put(opA, &types.CoinEntry{Output: types.Output{Value: 10}})
	if _, ok := c.Get(opB); ok {
		t.Fatalf("unrelated output index reported present")
	}
}

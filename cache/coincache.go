package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/hnsd/chaind/core/types"
)

const defaultCoinSize = 8192

// coinOp records a staged coin mutation: either a (re)written entry or a
// tombstone (deleted entry), mirroring bchd's utxoCache fresh/modified vs.
// spent packed-flag distinction (other_examples), reimplemented here as an
// explicit two-case overlay value rather than packed bits.
type coinOp struct {
	entry  *types.CoinEntry
	delete bool
}

// CoinCache is a read-through LRU cache over the `c(txid, index)` coin
// records, with the same batch-scoped staging overlay as EntryCache.
type CoinCache struct {
	committed *lru.Cache // types.Outpoint -> *types.CoinEntry

	staged  map[types.Outpoint]coinOp
	staging bool
}

// NewCoinCache returns a ready-to-use coin cache.
func NewCoinCache() *CoinCache {
	committed, _ := lru.New(defaultCoinSize)
	return &CoinCache{committed: committed}
}

// Start begins staging.
func (c *CoinCache) Start() {
	c.staged = make(map[types.Outpoint]coinOp)
	c.staging = true
}

// Drop discards the staging overlay.
func (c *CoinCache) Drop() {
	c.staged = nil
	c.staging = false
}

// Commit promotes every staged write/delete into the committed layer.
func (c *CoinCache) Commit() {
	for op, v := range c.staged {
		if v.delete {
			c.committed.Remove(op)
		} else {
			c.committed.Add(op, v.entry)
		}
	}
	c.staged = nil
	c.staging = false
}

// Get returns the cached coin for an outpoint, checking the staging
// overlay first. A staged tombstone reports not-found even if the
// committed layer still holds a stale value.
func (c *CoinCache) Get(op types.Outpoint) (*types.CoinEntry, bool) {
	if c.staging {
		if v, ok := c.staged[op]; ok {
			if v.delete {
				return nil, false
			}
			return v.entry, true
		}
	}
	v, ok := c.committed.Get(op)
	if !ok {
		return nil, false
	}
	return v.(*types.CoinEntry), true
}

// Put stages (or directly caches) a coin entry.
func (c *CoinCache) Put(op types.Outpoint, entry *types.CoinEntry) {
	if c.staging {
		c.staged[op] = coinOp{entry: entry}
		return
	}
	c.committed.Add(op, entry)
}

// Delete stages (or directly applies) a coin tombstone, used when a coin
// is spent and removed from the live set.
func (c *CoinCache) Delete(op types.Outpoint) {
	if c.staging {
		c.staged[op] = coinOp{delete: true}
		return
	}
	c.committed.Remove(op)
}

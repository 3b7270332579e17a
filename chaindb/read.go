// Read API (component J): cache-then-store lookups over everything the
// chain mutation engine writes, plus the tree-backed name queries and the
// address/tx indices gated by ChainFlags.
//
// Grounded on the teacher's core/blockchain_reader.go: every accessor here
// follows the same "check the in-memory cache, fall through to the
// database, backfill the cache on a hit" shape as GetHeader/GetBlock, and
// GetAncestor below is a direct generalization of HeaderChain.GetAncestor
// (core/headerchain.go) to this chain's ChainEntry type.
package chaindb

import (
	"hash/fnv"

	bloomfilter "github.com/holiman/bloomfilter/v2"

	"github.com/hnsd/chaind/core/rawdb"
	"github.com/hnsd/chaind/core/types"
	"github.com/hnsd/chaind/tree"
)

// GetEntry looks up a ChainEntry by hash, checking the entry cache first.
func (cdb *ChainDB) GetEntry(hash types.Hash) (*types.ChainEntry, bool) {
	if e, ok := cdb.entries.GetByHash(hash); ok {
		return e, true
	}
	e := rawdb.ReadEntry(cdb.meta, hash)
	if e == nil {
		return nil, false
	}
	cdb.entries.PutByHash(e)
	return e, true
}

// GetHashByHeight returns the main-chain hash at height, checking the
// entry cache first. A hash read from the meta store is cached only if the
// chain state did not change during the read (the reorg-race guard
// PutHashByHeight requires of its callers).
func (cdb *ChainDB) GetHashByHeight(height types.Height) (types.Hash, bool) {
	if h, ok := cdb.entries.GetHashByHeight(height); ok {
		return h, true
	}
	state := cdb.state
	h, ok := rawdb.ReadHashByHeight(cdb.meta, height)
	if !ok {
		return types.ZeroHash, false
	}
	if cdb.state == state {
		cdb.entries.PutHashByHeight(height, h)
	}
	return h, true
}

// GetEntryByHeight resolves the main-chain entry at height.
func (cdb *ChainDB) GetEntryByHeight(height types.Height) (*types.ChainEntry, bool) {
	hash, ok := cdb.GetHashByHeight(height)
	if !ok {
		return nil, false
	}
	return cdb.GetEntry(hash)
}

// GetHeight resolves the height at which hash's entry was recorded,
// regardless of main-chain membership (the reverse of GetHashByHeight).
func (cdb *ChainDB) GetHeight(hash types.Hash) (types.Height, bool) {
	if e, ok := cdb.entries.GetByHash(hash); ok {
		return e.Height, true
	}
	return rawdb.ReadHeightByHash(cdb.meta, hash)
}

// GetHashes returns the main-chain hashes over [start, end], skipping any
// height that fails to resolve rather than failing the whole range.
func (cdb *ChainDB) GetHashes(start, end types.Height) []types.Hash {
	hashes := make([]types.Hash, 0, end-start+1)
	for h := start; h <= end; h++ {
		if hash, ok := cdb.GetHashByHeight(h); ok {
			hashes = append(hashes, hash)
		}
	}
	return hashes
}

// GetEntries returns the main-chain entries over [start, end], skipping
// any height that fails to resolve rather than failing the whole range.
func (cdb *ChainDB) GetEntries(start, end types.Height) []*types.ChainEntry {
	entries := make([]*types.ChainEntry, 0, end-start+1)
	for h := start; h <= end; h++ {
		if e, ok := cdb.GetEntryByHeight(h); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// GetTip returns the current main-chain tip entry.
func (cdb *ChainDB) GetTip() (*types.ChainEntry, bool) {
	return cdb.GetEntry(cdb.state.Tip)
}

// GetPrevious returns entry's parent.
func (cdb *ChainDB) GetPrevious(entry *types.ChainEntry) (*types.ChainEntry, bool) {
	if entry.Height == 0 {
		return nil, false
	}
	return cdb.GetEntry(entry.PrevBlock)
}

// GetNextHash returns the main-chain successor hash recorded for hash, if
// any (spec.md §3's `n` record).
func (cdb *ChainDB) GetNextHash(hash types.Hash) (types.Hash, bool) {
	return rawdb.ReadNextHash(cdb.meta, hash)
}

// GetNext returns entry's main-chain successor entry.
func (cdb *ChainDB) GetNext(entry *types.ChainEntry) (*types.ChainEntry, bool) {
	hash, ok := cdb.GetNextHash(entry.Hash)
	if !ok {
		return nil, false
	}
	return cdb.GetEntry(hash)
}

// GetAncestor walks entry's parent chain back to height, using the
// height-indexed lookup directly when entry is already known to be on the
// main chain (the common case), and an O(entry.Height-height) walk
// otherwise — mirrors HeaderChain.GetAncestor's fast-path/slow-path split.
func (cdb *ChainDB) GetAncestor(entry *types.ChainEntry, height types.Height) (*types.ChainEntry, bool) {
	if height > entry.Height {
		return nil, false
	}
	if cdb.IsMainChain(entry) {
		return cdb.GetEntryByHeight(height)
	}
	for entry.Height > height {
		next, ok := cdb.GetPrevious(entry)
		if !ok {
			return nil, false
		}
		entry = next
	}
	return entry, true
}

// IsMainChain reports whether entry is the main-chain entry recorded at
// its own height.
func (cdb *ChainDB) IsMainChain(entry *types.ChainEntry) bool {
	hash, ok := cdb.GetHashByHeight(entry.Height)
	return ok && hash == entry.Hash
}

// IsMainHash reports whether hash names a main-chain entry.
func (cdb *ChainDB) IsMainHash(hash types.Hash) bool {
	entry, ok := cdb.GetEntry(hash)
	return ok && cdb.IsMainChain(entry)
}

// HasEntry reports whether a ChainEntry is recorded for hash, regardless
// of main-chain membership.
func (cdb *ChainDB) HasEntry(hash types.Hash) bool {
	_, ok := cdb.GetEntry(hash)
	return ok
}

// GetTips returns every tracked chain tip, main and alternate.
func (cdb *ChainDB) GetTips() ([]types.Hash, error) {
	var tips []types.Hash
	err := rawdb.RangeTips(cdb.meta, func(hash types.Hash) bool {
		tips = append(tips, hash)
		return true
	})
	return tips, err
}

// GetRawBlock returns a block's raw encoded bytes, or nil if pruned or
// absent. A nil blob store (SPV mode) always returns nil.
func (cdb *ChainDB) GetRawBlock(hash types.Hash) []byte {
	if cdb.blobs == nil {
		return nil
	}
	return cdb.blobs.ReadBlock(hash)
}

// GetBlock decodes the block stored under hash.
func (cdb *ChainDB) GetBlock(hash types.Hash) (*types.Block, bool) {
	raw := cdb.GetRawBlock(hash)
	if raw == nil {
		return nil, false
	}
	block, err := types.DecodeBlock(raw)
	if err != nil {
		return nil, false
	}
	return block, true
}

// GetUndoCoins decodes the undo record stored under a block hash.
func (cdb *ChainDB) GetUndoCoins(hash types.Hash) (*types.UndoCoins, bool) {
	if cdb.blobs == nil {
		return nil, false
	}
	raw := cdb.blobs.ReadUndo(hash)
	if raw == nil {
		return nil, false
	}
	undo, err := types.DecodeUndoCoins(raw)
	if err != nil {
		return nil, false
	}
	return undo, true
}

// GetCoin looks up a live coin by outpoint, checking the coin cache first.
func (cdb *ChainDB) GetCoin(op types.Outpoint) (*types.CoinEntry, bool) {
	if c, ok := cdb.coins.Get(op); ok {
		return c, true
	}
	c := rawdb.ReadCoin(cdb.meta, op.Hash, op.Index)
	if c == nil {
		return nil, false
	}
	cdb.coins.Put(op, c)
	return c, true
}

// HasCoin reports whether an outpoint is currently unspent.
func (cdb *ChainDB) HasCoin(op types.Outpoint) bool {
	if _, ok := cdb.coins.Get(op); ok {
		return true
	}
	return rawdb.HasCoin(cdb.meta, op.Hash, op.Index)
}

// ReadCoin looks up a live coin by outpoint directly against the meta
// store, bypassing the coin cache entirely. Used where a caller needs to
// verify on-disk state itself rather than whatever the cache currently
// holds (e.g. auditing a cache-consistency bug).
func (cdb *ChainDB) ReadCoin(op types.Outpoint) (*types.CoinEntry, bool) {
	c := rawdb.ReadCoin(cdb.meta, op.Hash, op.Index)
	if c == nil {
		return nil, false
	}
	return c, true
}

// HasCoins reports whether every given outpoint is currently unspent.
func (cdb *ChainDB) HasCoins(ops []types.Outpoint) bool {
	for _, op := range ops {
		if !cdb.HasCoin(op) {
			return false
		}
	}
	return true
}

// GetCoinView assembles the CoinView a caller needs before connecting tx:
// every referenced input's current coin, or ErrMissingUndo if any input
// is missing (a double-spend or an already-spent input).
func (cdb *ChainDB) GetCoinView(tx *types.Transaction) (*types.CoinView, error) {
	view := types.NewCoinView()
	if tx.IsCoinbase() {
		return view, nil
	}
	for _, in := range tx.Inputs {
		c, ok := cdb.GetCoin(in.Previous)
		if !ok {
			return nil, ErrMissingUndo
		}
		view.AddEntry(in.Previous, *c)
	}
	return view, nil
}

// GetBlockView assembles the CoinView a caller needs before connecting
// block: every referenced input of every non-coinbase transaction in the
// block, resolved against live coin state, or ErrMissingUndo if any input
// is missing. Unlike GetCoinView (a single transaction), this also
// layers each transaction's own outputs into the view as they're seen, so
// a later transaction in the same block consuming an earlier one's output
// resolves correctly before either has been connected.
func (cdb *ChainDB) GetBlockView(block *types.Block) (*types.CoinView, error) {
	view := types.NewCoinView()
	for _, tx := range block.Transactions {
		txHash := tx.Hash()
		if !tx.IsCoinbase() {
			for _, in := range tx.Inputs {
				if _, ok := view.GetEntry(in.Previous); ok {
					continue
				}
				c, ok := cdb.GetCoin(in.Previous)
				if !ok {
					return nil, ErrMissingUndo
				}
				view.AddEntry(in.Previous, *c)
			}
		}
		for i, out := range tx.Outputs {
			view.AddEntry(types.Outpoint{Hash: txHash, Index: uint32(i)}, types.CoinEntry{Coinbase: tx.IsCoinbase(), Output: out})
		}
	}
	return view, nil
}

// GetSpentView resolves the historical coins a block's inputs consumed,
// using the block's stored undo record rather than the live coin set
// (which no longer holds them) — the supplemented read needed to audit or
// replay a past block without disconnecting the chain down to it.
func (cdb *ChainDB) GetSpentView(entry *types.ChainEntry) (*types.CoinView, error) {
	undo, ok := cdb.GetUndoCoins(entry.Hash)
	if !ok {
		return nil, ErrMissingUndo
	}
	view := types.NewCoinView()
	for _, e := range undo.Entries {
		view.AddEntry(e.Outpoint, e.Coin)
	}
	return view, nil
}

// TreeRoot returns the tree's currently committed root.
func (cdb *ChainDB) TreeRoot() types.Hash {
	return cdb.treeState.TreeRoot
}

// GetNameState resolves a name's current authenticated state from the
// tree, keyed directly by its precomputed hash.
func (cdb *ChainDB) GetNameState(nameHash types.Hash) (*types.NameState, bool) {
	data, ok := cdb.tree.Snapshot(cdb.treeState.TreeRoot).Get(nameHash)
	if !ok {
		return nil, false
	}
	n, err := types.DecodeNameState(data)
	if err != nil {
		return nil, false
	}
	return n, true
}

// GetNameStateByName resolves a name's current state from its
// human-readable form.
func (cdb *ChainDB) GetNameStateByName(name string) (*types.NameState, bool) {
	return cdb.GetNameState(types.NameHash(name))
}

// GetNameStatus reports whether name is registered, without decoding the
// full record.
func (cdb *ChainDB) GetNameStatus(name string) bool {
	_, ok := cdb.GetNameStateByName(name)
	return ok
}

// Lookup is an alias for GetNameState matching spec.md's wire-level name
// for the single-key tree read.
func (cdb *ChainDB) Lookup(nameHash types.Hash) (*types.NameState, bool) {
	return cdb.GetNameState(nameHash)
}

// Prove returns a Merkle proof of nameHash's presence or absence at the
// tree's currently committed root.
func (cdb *ChainDB) Prove(nameHash types.Hash) (*tree.Proof, error) {
	return cdb.tree.Snapshot(cdb.treeState.TreeRoot).Prove(nameHash)
}

// GetMeta resolves a transaction's block location, populated only when
// ChainFlags.IndexTX is set.
func (cdb *ChainDB) GetMeta(txHash types.Hash) (*types.TXMeta, bool) {
	if !cdb.flags.IndexTX {
		return nil, false
	}
	m := rawdb.ReadTXMeta(cdb.meta, txHash)
	if m == nil {
		return nil, false
	}
	return m, true
}

// HasTX reports whether a transaction is indexed.
func (cdb *ChainDB) HasTX(txHash types.Hash) bool {
	return cdb.flags.IndexTX && rawdb.HasTXMeta(cdb.meta, txHash)
}

// GetTX resolves a transaction and its block metadata by hash, reading
// the owning block and scanning to the indexed position.
func (cdb *ChainDB) GetTX(txHash types.Hash) (*types.Transaction, *types.TXMeta, bool) {
	meta, ok := cdb.GetMeta(txHash)
	if !ok {
		return nil, nil, false
	}
	block, ok := cdb.GetBlock(meta.BlockHash)
	if !ok || int(meta.Index) >= len(block.Transactions) {
		return nil, nil, false
	}
	return block.Transactions[meta.Index], meta, true
}

// GetHashesByAddress returns every transaction hash touching addrHash,
// populated only when ChainFlags.IndexTX && IndexAddress are set.
func (cdb *ChainDB) GetHashesByAddress(addrHash types.Hash) ([]types.Hash, error) {
	var hashes []types.Hash
	err := rawdb.RangeAddrTx(cdb.meta, addrHash, func(txid types.Hash) bool {
		hashes = append(hashes, txid)
		return true
	})
	return hashes, err
}

// GetCoinsByAddress returns every outpoint ever credited to addrHash
// (spent or not), populated only when ChainFlags.IndexAddress is set.
func (cdb *ChainDB) GetCoinsByAddress(addrHash types.Hash) ([]types.Outpoint, error) {
	var ops []types.Outpoint
	err := rawdb.RangeAddrCoin(cdb.meta, addrHash, func(txid types.Hash, index uint32) bool {
		ops = append(ops, types.Outpoint{Hash: txid, Index: index})
		return true
	})
	return ops, err
}

// GetMetaByAddress resolves the block-location metadata (not the full
// transaction bodies) for every indexed transaction touching addrHash, a
// lighter-weight alternative to GetTXByAddress for callers that only need
// to know where a match lives.
func (cdb *ChainDB) GetMetaByAddress(addrHash types.Hash) ([]*types.TXMeta, error) {
	hashes, err := cdb.GetHashesByAddress(addrHash)
	if err != nil {
		return nil, err
	}
	metas := make([]*types.TXMeta, 0, len(hashes))
	for _, h := range hashes {
		if m, ok := cdb.GetMeta(h); ok {
			metas = append(metas, m)
		}
	}
	return metas, nil
}

// GetTXByAddress resolves every indexed transaction touching addrHash.
func (cdb *ChainDB) GetTXByAddress(addrHash types.Hash) ([]*types.Transaction, error) {
	hashes, err := cdb.GetHashesByAddress(addrHash)
	if err != nil {
		return nil, err
	}
	txs := make([]*types.Transaction, 0, len(hashes))
	for _, h := range hashes {
		if tx, _, ok := cdb.GetTX(h); ok {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// NewAddressFilter builds a bloom filter sized for n candidate addresses,
// used by Scan to match transaction outputs by address hash. The filter
// test is the only match check, so bloom false positives are reported as
// matches.
func NewAddressFilter(addrHashes []types.Hash) (*bloomfilter.Filter, error) {
	filter, err := bloomfilter.NewOptimal(uint64(len(addrHashes))+1, 0.01)
	if err != nil {
		return nil, err
	}
	for _, h := range addrHashes {
		hasher := fnv.New64a()
		hasher.Write(h[:])
		filter.Add(hasher)
	}
	return filter, nil
}

// Scan walks the main chain from start, fetching each block and applying
// filter to each transaction's outputs, awaiting iter(entry, matchedTxs)
// before advancing. A pruned block invokes iter with an empty list rather
// than erroring or skipping. A nil filter matches every transaction.
// Returns once getNext yields no successor (spec.md §4.J).
func (cdb *ChainDB) Scan(start types.Height, filter *bloomfilter.Filter, iter func(entry *types.ChainEntry, matchedTxs []*types.Transaction) error) error {
	entry, ok := cdb.GetEntryByHeight(start)
	if !ok {
		return nil
	}
	for {
		matched, err := cdb.scanBlock(entry, filter)
		if err != nil {
			return err
		}
		if err := iter(entry, matched); err != nil {
			return err
		}
		next, ok := cdb.GetNext(entry)
		if !ok {
			return nil
		}
		entry = next
	}
}

// scanBlock returns entry's transactions that have at least one output
// matching filter, or every transaction if filter is nil. A pruned block
// (its bytes no longer retrievable) reports an empty, non-error match
// list — Scan is responsible for still invoking iter with it.
func (cdb *ChainDB) scanBlock(entry *types.ChainEntry, filter *bloomfilter.Filter) ([]*types.Transaction, error) {
	block, ok := cdb.GetBlock(entry.Hash)
	if !ok {
		return nil, nil
	}
	var matched []*types.Transaction
	for _, tx := range block.Transactions {
		if filter == nil {
			matched = append(matched, tx)
			continue
		}
		for _, out := range tx.Outputs {
			if len(out.Address) == 0 {
				continue
			}
			hasher := fnv.New64a()
			hasher.Write(types.AddressHash(out.Address)[:])
			if filter.Contains(hasher) {
				matched = append(matched, tx)
				break
			}
		}
	}
	return matched, nil
}

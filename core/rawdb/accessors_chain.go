package rawdb

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/core/types"
)

// ReadSchemaVersion reads the `V` record.
func ReadSchemaVersion(db ethdb.KeyValueReader) (uint32, bool) {
	data, err := db.Get(schemaVersionPrefix)
	if err != nil || data == nil {
		return 0, false
	}
	return DecodeSchemaVersion(data)
}

// WriteSchemaVersion writes the `V` record.
func WriteSchemaVersion(db ethdb.KeyValueWriter, version uint32) {
	if err := db.Put(schemaVersionPrefix, EncodeSchemaVersion(version)); err != nil {
		log.Crit("Failed to store schema version", "err", err)
	}
}

// ReadHeightByHash reads the `h(hash)` record.
func ReadHeightByHash(db ethdb.KeyValueReader, hash types.Hash) (types.Height, bool) {
	data, err := db.Get(heightByHashKey(hash))
	if err != nil || len(data) != 4 {
		return 0, false
	}
	return getUint32LE(data), true
}

// WriteHeightByHash writes the `h(hash)` record.
func WriteHeightByHash(db ethdb.KeyValueWriter, hash types.Hash, height types.Height) {
	buf := make([]byte, 4)
	putUint32LE(buf, height)
	if err := db.Put(heightByHashKey(hash), buf); err != nil {
		log.Crit("Failed to store height by hash", "hash", hash, "err", err)
	}
}

// DeleteHeightByHash deletes the `h(hash)` record.
func DeleteHeightByHash(db ethdb.KeyValueWriter, hash types.Hash) {
	if err := db.Delete(heightByHashKey(hash)); err != nil {
		log.Crit("Failed to delete height by hash", "hash", hash, "err", err)
	}
}

// ReadHashByHeight reads the `H(height)` record.
func ReadHashByHeight(db ethdb.KeyValueReader, height types.Height) (types.Hash, bool) {
	data, err := db.Get(hashByHeightKey(height))
	if err != nil || len(data) != 32 {
		return types.ZeroHash, false
	}
	var h types.Hash
	copy(h[:], data)
	return h, true
}

// WriteHashByHeight writes the `H(height)` record.
func WriteHashByHeight(db ethdb.KeyValueWriter, height types.Height, hash types.Hash) {
	if err := db.Put(hashByHeightKey(height), hash[:]); err != nil {
		log.Crit("Failed to store hash by height", "height", height, "err", err)
	}
}

// DeleteHashByHeight deletes the `H(height)` record.
func DeleteHashByHeight(db ethdb.KeyValueWriter, height types.Height) {
	if err := db.Delete(hashByHeightKey(height)); err != nil {
		log.Crit("Failed to delete hash by height", "height", height, "err", err)
	}
}

// ReadEntry reads and decodes the `e(hash)` record.
func ReadEntry(db ethdb.KeyValueReader, hash types.Hash) *types.ChainEntry {
	data, err := db.Get(entryKey(hash))
	if err != nil || data == nil {
		return nil
	}
	entry, err := types.DecodeChainEntry(data)
	if err != nil {
		log.Crit("Failed to decode chain entry", "hash", hash, "err", err)
		return nil
	}
	return entry
}

// WriteEntry encodes and writes the `e(hash)` record.
func WriteEntry(db ethdb.KeyValueWriter, entry *types.ChainEntry) {
	data, err := types.EncodeChainEntry(entry)
	if err != nil {
		log.Crit("Failed to encode chain entry", "hash", entry.Hash, "err", err)
	}
	if err := db.Put(entryKey(entry.Hash), data); err != nil {
		log.Crit("Failed to store chain entry", "hash", entry.Hash, "err", err)
	}
}

// ReadNextHash reads the `n(hash)` record.
func ReadNextHash(db ethdb.KeyValueReader, hash types.Hash) (types.Hash, bool) {
	data, err := db.Get(nextHashKey(hash))
	if err != nil || len(data) != 32 {
		return types.ZeroHash, false
	}
	var h types.Hash
	copy(h[:], data)
	return h, true
}

// WriteNextHash writes the `n(hash)` record.
func WriteNextHash(db ethdb.KeyValueWriter, hash, next types.Hash) {
	if err := db.Put(nextHashKey(hash), next[:]); err != nil {
		log.Crit("Failed to store next hash", "hash", hash, "err", err)
	}
}

// DeleteNextHash deletes the `n(hash)` record.
func DeleteNextHash(db ethdb.KeyValueWriter, hash types.Hash) {
	if err := db.Delete(nextHashKey(hash)); err != nil {
		log.Crit("Failed to delete next hash", "hash", hash, "err", err)
	}
}

// HasTip reports whether `p(hash)` exists — hash is a tracked chain tip.
func HasTip(db ethdb.KeyValueReader, hash types.Hash) bool {
	ok, _ := db.Has(tipKey(hash))
	return ok
}

// WriteTip writes the empty `p(hash)` record.
func WriteTip(db ethdb.KeyValueWriter, hash types.Hash) {
	if err := db.Put(tipKey(hash), []byte{}); err != nil {
		log.Crit("Failed to store tip", "hash", hash, "err", err)
	}
}

// DeleteTip deletes the `p(hash)` record.
func DeleteTip(db ethdb.KeyValueWriter, hash types.Hash) {
	if err := db.Delete(tipKey(hash)); err != nil {
		log.Crit("Failed to delete tip", "hash", hash, "err", err)
	}
}

// RangeTips iterates every tracked tip hash.
func RangeTips(db *Database, fn func(hash types.Hash) bool) error {
	return db.Range(tipPrefix, func(key, _ []byte) bool {
		var h types.Hash
		copy(h[:], key)
		return fn(h)
	})
}

// ReadChainState reads and decodes the `R` record.
func ReadChainState(db ethdb.KeyValueReader) *types.ChainState {
	data, err := db.Get(chainStateKey)
	if err != nil || data == nil {
		return nil
	}
	s, err := types.DecodeChainState(data)
	if err != nil {
		log.Crit("Failed to decode chain state", "err", err)
		return nil
	}
	return s
}

// WriteChainState encodes and writes the `R` record.
func WriteChainState(db ethdb.KeyValueWriter, s *types.ChainState) {
	data, err := types.EncodeChainState(s)
	if err != nil {
		log.Crit("Failed to encode chain state", "err", err)
	}
	if err := db.Put(chainStateKey, data); err != nil {
		log.Crit("Failed to store chain state", "err", err)
	}
}

// ReadTreeState reads and decodes the `s` record.
func ReadTreeState(db ethdb.KeyValueReader) *types.TreeState {
	data, err := db.Get(treeStateKey)
	if err != nil || data == nil {
		return nil
	}
	s, err := types.DecodeTreeState(data)
	if err != nil {
		log.Crit("Failed to decode tree state", "err", err)
		return nil
	}
	return s
}

// WriteTreeState encodes and writes the `s` record.
func WriteTreeState(db ethdb.KeyValueWriter, s *types.TreeState) {
	data, err := types.EncodeTreeState(s)
	if err != nil {
		log.Crit("Failed to encode tree state", "err", err)
	}
	if err := db.Put(treeStateKey, data); err != nil {
		log.Crit("Failed to store tree state", "err", err)
	}
}

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

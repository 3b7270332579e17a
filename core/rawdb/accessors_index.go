package rawdb

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/core/types"
)

// ReadTXMeta reads and decodes the `t(hash)` record. Only populated when
// ChainFlags.IndexTX is enabled.
func ReadTXMeta(db ethdb.KeyValueReader, hash types.Hash) *types.TXMeta {
	data, err := db.Get(txMetaKey(hash))
	if err != nil || data == nil {
		return nil
	}
	m, err := types.DecodeTXMeta(data)
	if err != nil {
		log.Crit("Failed to decode tx meta", "hash", hash, "err", err)
		return nil
	}
	return m
}

// HasTXMeta reports whether a `t(hash)` record exists.
func HasTXMeta(db ethdb.KeyValueReader, hash types.Hash) bool {
	ok, _ := db.Has(txMetaKey(hash))
	return ok
}

// WriteTXMeta encodes and writes the `t(hash)` record.
func WriteTXMeta(db ethdb.KeyValueWriter, hash types.Hash, m *types.TXMeta) {
	data, err := types.EncodeTXMeta(m)
	if err != nil {
		log.Crit("Failed to encode tx meta", "hash", hash, "err", err)
	}
	if err := db.Put(txMetaKey(hash), data); err != nil {
		log.Crit("Failed to store tx meta", "hash", hash, "err", err)
	}
}

// DeleteTXMeta deletes the `t(hash)` record.
func DeleteTXMeta(db ethdb.KeyValueWriter, hash types.Hash) {
	if err := db.Delete(txMetaKey(hash)); err != nil {
		log.Crit("Failed to delete tx meta", "hash", hash, "err", err)
	}
}

// WriteAddrTx writes the empty `T(addrHash, txid)` record. Only written
// when ChainFlags.IndexTX && ChainFlags.IndexAddress are both enabled.
func WriteAddrTx(db ethdb.KeyValueWriter, addrHash, txid types.Hash) {
	if err := db.Put(addrTxKey(addrHash, txid), []byte{}); err != nil {
		log.Crit("Failed to store address tx index", "addr", addrHash, "txid", txid, "err", err)
	}
}

// DeleteAddrTx deletes the `T(addrHash, txid)` record.
func DeleteAddrTx(db ethdb.KeyValueWriter, addrHash, txid types.Hash) {
	if err := db.Delete(addrTxKey(addrHash, txid)); err != nil {
		log.Crit("Failed to delete address tx index", "addr", addrHash, "txid", txid, "err", err)
	}
}

// RangeAddrTx iterates every txid indexed under an address hash.
func RangeAddrTx(db *Database, addrHash types.Hash, fn func(txid types.Hash) bool) error {
	return db.Range(addrTxPrefixKey(addrHash), func(key, _ []byte) bool {
		var h types.Hash
		copy(h[:], key)
		return fn(h)
	})
}

// WriteAddrCoin writes the empty `C(addrHash, txid, index)` record. Only
// written when ChainFlags.IndexAddress is enabled.
func WriteAddrCoin(db ethdb.KeyValueWriter, addrHash, txid types.Hash, index uint32) {
	if err := db.Put(addrCoinKey(addrHash, txid, index), []byte{}); err != nil {
		log.Crit("Failed to store address coin index", "addr", addrHash, "txid", txid, "err", err)
	}
}

// DeleteAddrCoin deletes the `C(addrHash, txid, index)` record.
func DeleteAddrCoin(db ethdb.KeyValueWriter, addrHash, txid types.Hash, index uint32) {
	if err := db.Delete(addrCoinKey(addrHash, txid, index)); err != nil {
		log.Crit("Failed to delete address coin index", "addr", addrHash, "txid", txid, "err", err)
	}
}

// RangeAddrCoin iterates every (txid, index) outpoint indexed under an
// address hash.
func RangeAddrCoin(db *Database, addrHash types.Hash, fn func(txid types.Hash, index uint32) bool) error {
	return db.Range(addrCoinPrefixKey(addrHash), func(key, _ []byte) bool {
		var h types.Hash
		copy(h[:], key[:32])
		index := getUint32BE(key[32:36])
		return fn(h, index)
	})
}

func getUint32BE(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// ReadNameUndo reads and decodes the `w(height)` record.
func ReadNameUndo(db ethdb.KeyValueReader, height types.Height) *types.NameUndo {
	data, err := db.Get(nameUndoKey(height))
	if err != nil || data == nil {
		return nil
	}
	u, err := types.DecodeNameUndo(data)
	if err != nil {
		log.Crit("Failed to decode name undo", "height", height, "err", err)
		return nil
	}
	return u
}

// WriteNameUndo encodes and writes the `w(height)` record.
func WriteNameUndo(db ethdb.KeyValueWriter, height types.Height, u *types.NameUndo) {
	data, err := types.EncodeNameUndo(u)
	if err != nil {
		log.Crit("Failed to encode name undo", "height", height, "err", err)
	}
	if err := db.Put(nameUndoKey(height), data); err != nil {
		log.Crit("Failed to store name undo", "height", height, "err", err)
	}
}

// DeleteNameUndo deletes the `w(height)` record.
func DeleteNameUndo(db ethdb.KeyValueWriter, height types.Height) {
	if err := db.Delete(nameUndoKey(height)); err != nil {
		log.Crit("Failed to delete name undo", "height", height, "err", err)
	}
}

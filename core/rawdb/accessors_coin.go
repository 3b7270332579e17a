package rawdb

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/core/types"
)

// ReadCoin reads and decodes the `c(txid, index)` record.
func ReadCoin(db ethdb.KeyValueReader, txid types.Hash, index uint32) *types.CoinEntry {
	data, err := db.Get(coinKey(txid, index))
	if err != nil || data == nil {
		return nil
	}
	c, err := types.DecodeCoinEntry(data)
	if err != nil {
		log.Crit("Failed to decode coin entry", "txid", txid, "index", index, "err", err)
		return nil
	}
	return c
}

// HasCoin reports whether the `c(txid, index)` record exists, without
// decoding its value.
func HasCoin(db ethdb.KeyValueReader, txid types.Hash, index uint32) bool {
	ok, _ := db.Has(coinKey(txid, index))
	return ok
}

// WriteCoin encodes and writes the `c(txid, index)` record.
func WriteCoin(db ethdb.KeyValueWriter, txid types.Hash, index uint32, c *types.CoinEntry) {
	data, err := types.EncodeCoinEntry(c)
	if err != nil {
		log.Crit("Failed to encode coin entry", "txid", txid, "index", index, "err", err)
	}
	if err := db.Put(coinKey(txid, index), data); err != nil {
		log.Crit("Failed to store coin entry", "txid", txid, "index", index, "err", err)
	}
}

// DeleteCoin deletes the `c(txid, index)` record.
func DeleteCoin(db ethdb.KeyValueWriter, txid types.Hash, index uint32) {
	if err := db.Delete(coinKey(txid, index)); err != nil {
		log.Crit("Failed to delete coin entry", "txid", txid, "index", index, "err", err)
	}
}

package rawdb

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/core/types"
)

// ReadChainFlags reads and decodes the `O` record.
func ReadChainFlags(db ethdb.KeyValueReader) *types.ChainFlags {
	data, err := db.Get(chainFlagsKey)
	if err != nil || data == nil {
		return nil
	}
	f, ok := types.DecodeChainFlags(data)
	if !ok {
		log.Crit("Failed to decode chain flags")
		return nil
	}
	return f
}

// WriteChainFlags encodes and writes the `O` record.
func WriteChainFlags(db ethdb.KeyValueWriter, f *types.ChainFlags) {
	if err := db.Put(chainFlagsKey, types.EncodeChainFlags(f)); err != nil {
		log.Crit("Failed to store chain flags", "err", err)
	}
}

// ReadDeploymentTable reads and decodes the `D` record. A missing record
// returns (nil, false); spec.md §7 item 2 treats a genuinely missing
// table (as opposed to a malformed one) as corruption, which callers check
// for via the second return value.
func ReadDeploymentTable(db ethdb.KeyValueReader) (*types.DeploymentTable, bool) {
	data, err := db.Get(deployTableKey)
	if err != nil || data == nil {
		return nil, false
	}
	return types.DecodeDeploymentTable(data), true
}

// WriteDeploymentTable encodes and writes the `D` record.
func WriteDeploymentTable(db ethdb.KeyValueWriter, t *types.DeploymentTable) {
	if err := db.Put(deployTableKey, types.EncodeDeploymentTable(t)); err != nil {
		log.Crit("Failed to store deployment table", "err", err)
	}
}

// ReadDeployState reads the `v(bit, hash)` 1-byte cache entry.
func ReadDeployState(db ethdb.KeyValueReader, bit uint8, hash types.Hash) (types.DeploymentState, bool) {
	data, err := db.Get(deployStateKey(bit, hash))
	if err != nil || len(data) != 1 {
		return 0, false
	}
	return types.DeploymentState(data[0]), true
}

// WriteDeployState writes the `v(bit, hash)` record.
func WriteDeployState(db ethdb.KeyValueWriter, bit uint8, hash types.Hash, state types.DeploymentState) {
	if err := db.Put(deployStateKey(bit, hash), []byte{byte(state)}); err != nil {
		log.Crit("Failed to store deployment state", "bit", bit, "hash", hash, "err", err)
	}
}

// ReadBitField reads and decodes the `f` record.
func ReadBitField(db ethdb.KeyValueReader) *types.BitField {
	data, err := db.Get(bitFieldKey)
	if err != nil || data == nil {
		return types.NewBitField()
	}
	return types.DecodeBitField(data)
}

// WriteBitField encodes and writes the `f` record.
func WriteBitField(db ethdb.KeyValueWriter, b *types.BitField) {
	if err := db.Put(bitFieldKey, types.EncodeBitField(b)); err != nil {
		log.Crit("Failed to store bitfield", "err", err)
	}
}

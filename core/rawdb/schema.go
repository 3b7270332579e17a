// Package rawdb implements the meta key-value store (component A) and its
// key layout and record codecs (component D): one leading prefix byte per
// table, exactly as spec.md §6 lists them, built in the teacher's
// `rawdb.HeaderKey`-style "prefix + fixed fields" key-builder idiom.
package rawdb

import (
	"encoding/binary"

	"github.com/hnsd/chaind/core/types"
)

var (
	schemaVersionPrefix = []byte("V")

	chainFlagsKey = []byte{'O'}
	chainStateKey = []byte{'R'}
	treeStateKey  = []byte{'s'}
	deployTableKey = []byte{'D'}
	bitFieldKey   = []byte{'f'}

	heightByHashPrefix = []byte{'h'} // h(hash) -> height
	hashByHeightPrefix = []byte{'H'} // H(height) -> hash
	entryPrefix        = []byte{'e'} // e(hash) -> ChainEntry
	nextHashPrefix     = []byte{'n'} // n(hash) -> next hash
	tipPrefix          = []byte{'p'} // p(hash) -> empty
	coinPrefix         = []byte{'c'} // c(txid, index) -> CoinEntry
	txMetaPrefix       = []byte{'t'} // t(hash) -> TXMeta
	addrTxPrefix       = []byte{'T'} // T(addrHash, txid) -> empty
	addrCoinPrefix     = []byte{'C'} // C(addrHash, txid, index) -> empty
	deployStatePrefix  = []byte{'v'} // v(bit, hash) -> state
	nameUndoPrefix     = []byte{'w'} // w(height) -> NameUndo
)

// SchemaVersion is the current on-disk schema version written into the
// `V` record.
const SchemaVersion uint32 = 3

// schemaMagic is the ASCII tag preceding the version in the `V` record.
const schemaMagic = "chain"

// EncodeSchemaVersion writes the fixed `V` record: ASCII "chain" followed
// by a u32-LE version.
func EncodeSchemaVersion(version uint32) []byte {
	out := make([]byte, len(schemaMagic)+4)
	copy(out, schemaMagic)
	binary.LittleEndian.PutUint32(out[len(schemaMagic):], version)
	return out
}

// DecodeSchemaVersion parses the `V` record, reporting false if the magic
// tag doesn't match.
func DecodeSchemaVersion(data []byte) (uint32, bool) {
	if len(data) != len(schemaMagic)+4 || string(data[:len(schemaMagic)]) != schemaMagic {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[len(schemaMagic):]), true
}

func heightByHashKey(hash types.Hash) []byte {
	return append(append([]byte{}, heightByHashPrefix...), hash[:]...)
}

func hashByHeightKey(height types.Height) []byte {
	k := make([]byte, len(hashByHeightPrefix)+4)
	copy(k, hashByHeightPrefix)
	binary.BigEndian.PutUint32(k[len(hashByHeightPrefix):], height)
	return k
}

func entryKey(hash types.Hash) []byte {
	return append(append([]byte{}, entryPrefix...), hash[:]...)
}

func nextHashKey(hash types.Hash) []byte {
	return append(append([]byte{}, nextHashPrefix...), hash[:]...)
}

func tipKey(hash types.Hash) []byte {
	return append(append([]byte{}, tipPrefix...), hash[:]...)
}

func coinKey(txid types.Hash, index uint32) []byte {
	k := make([]byte, len(coinPrefix)+32+4)
	off := copy(k, coinPrefix)
	off += copy(k[off:], txid[:])
	binary.BigEndian.PutUint32(k[off:], index)
	return k
}

func txMetaKey(hash types.Hash) []byte {
	return append(append([]byte{}, txMetaPrefix...), hash[:]...)
}

func addrTxKey(addrHash types.Hash, txid types.Hash) []byte {
	k := make([]byte, len(addrTxPrefix)+32+32)
	off := copy(k, addrTxPrefix)
	off += copy(k[off:], addrHash[:])
	copy(k[off:], txid[:])
	return k
}

func addrTxPrefixKey(addrHash types.Hash) []byte {
	k := make([]byte, len(addrTxPrefix)+32)
	off := copy(k, addrTxPrefix)
	copy(k[off:], addrHash[:])
	return k
}

func addrCoinKey(addrHash types.Hash, txid types.Hash, index uint32) []byte {
	k := make([]byte, len(addrCoinPrefix)+32+32+4)
	off := copy(k, addrCoinPrefix)
	off += copy(k[off:], addrHash[:])
	off += copy(k[off:], txid[:])
	binary.BigEndian.PutUint32(k[off:], index)
	return k
}

func addrCoinPrefixKey(addrHash types.Hash) []byte {
	k := make([]byte, len(addrCoinPrefix)+32)
	off := copy(k, addrCoinPrefix)
	copy(k[off:], addrHash[:])
	return k
}

func deployStateKey(bit uint8, hash types.Hash) []byte {
	k := make([]byte, len(deployStatePrefix)+1+32)
	off := copy(k, deployStatePrefix)
	k[off] = bit
	copy(k[off+1:], hash[:])
	return k
}

func nameUndoKey(height types.Height) []byte {
	k := make([]byte, len(nameUndoPrefix)+4)
	off := copy(k, nameUndoPrefix)
	binary.BigEndian.PutUint32(k[off:], height)
	return k
}

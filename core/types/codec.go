package types

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// hashBytes is the hash function used for deriving identifiers (tx hash,
// name hash) from encoded bytes outside of the authenticated tree itself,
// matching the glossary's "256-bit Blake2b" hashing throughout the rest of
// the module.
func hashBytes(b []byte) Hash {
	return blake2b.Sum256(b)
}

// NameHash derives the name-tree key for a human-readable name.
func NameHash(name string) Hash {
	return hashBytes([]byte(name))
}

// AddressHash derives the address-index key used by the `T`/`C` records
// from a raw output address/script.
func AddressHash(addr []byte) Hash {
	return hashBytes(addr)
}

// putUint32 and getUint32 are the little-endian helpers used by the
// fixed-width records (the `O` flags record, deployment table entries)
// that spec.md pins to an exact byte layout rather than RLP, mirroring the
// one place the teacher also hand-rolls a layout instead of reaching for
// RLP (its big-endian block-number key encoding).
func putUint32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

func getUint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func putUint64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

func getUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// ChainEntry is a block header plus the three fields derived at connect
// time: height, hash, and a copy of its parent hash for fast walks.
// Immutable once written; identified by Hash, indexed by Height only when
// on the main chain (spec.md §3).
type ChainEntry struct {
	Hash      Hash
	Height    Height
	PrevBlock Hash
	TreeRoot  Hash
	Header    Header
}

// NewChainEntry derives a ChainEntry from a header and its resolved
// height. The hash is computed from the header, not supplied by the
// caller, so a ChainEntry can never disagree with the block it names.
func NewChainEntry(header Header, height Height) *ChainEntry {
	b := Block{Header: header}
	return &ChainEntry{
		Hash:      b.Hash(),
		Height:    height,
		PrevBlock: header.PrevBlock,
		TreeRoot:  header.TreeRoot,
		Header:    header,
	}
}

// EncodeChainEntry and DecodeChainEntry are the wire format for the
// `e(hash)` meta-store record.
func EncodeChainEntry(e *ChainEntry) ([]byte, error) {
	return rlp.EncodeToBytes(e)
}

func DecodeChainEntry(data []byte) (*ChainEntry, error) {
	var e ChainEntry
	if err := rlp.DecodeBytes(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

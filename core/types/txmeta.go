package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// TXMeta locates a transaction within the main chain: the block it was
// mined in and its index within that block's transaction list. Persisted
// under `t(hash)` only when ChainFlags.IndexTX is set (spec.md §6).
type TXMeta struct {
	BlockHash Hash
	Height    Height
	Index     uint32
}

func EncodeTXMeta(m *TXMeta) ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

func DecodeTXMeta(data []byte) (*TXMeta, error) {
	var m TXMeta
	if err := rlp.DecodeBytes(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

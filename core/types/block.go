package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Header is a block header: the fields a ChainEntry is derived from, plus
// the covenant tree root committed at fixed intervals.
type Header struct {
	PrevBlock Hash
	TreeRoot  Hash
	Time      uint64
	Bits      uint32
	Nonce     uint64
}

// Block is a full block: header plus its transactions. Blocks are stored
// as opaque bytes in the blob store and parsed on demand, matching the
// teacher's treatment of bodies as RLP blobs rather than always-resident
// structures.
type Block struct {
	Header       Header
	Transactions []*Transaction
}

// Hash returns the block's identifying hash, computed over the header
// only. The header carries no commitment to the transactions, so they
// are not covered by this hash.
func (b *Block) Hash() Hash {
	enc, err := rlp.EncodeToBytes(&b.Header)
	if err != nil {
		panic(err)
	}
	return hashBytes(enc)
}

// EncodeBlock and DecodeBlock are the blob-store wire format for a Block.
func EncodeBlock(b *Block) ([]byte, error) {
	return rlp.EncodeToBytes(b)
}

func DecodeBlock(data []byte) (*Block, error) {
	var b Block
	if err := rlp.DecodeBytes(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

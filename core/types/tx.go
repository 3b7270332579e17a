package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Outpoint identifies a single output of a transaction: its containing
// transaction hash and output index.
type Outpoint struct {
	Hash  Hash
	Index uint32
}

// IsNull reports whether the outpoint is the null outpoint a coinbase
// input carries in place of a real previous output.
func (o Outpoint) IsNull() bool {
	return o.Hash == ZeroHash && o.Index == 0xffffffff
}

// Output is a single transaction output: a value, a locking script, and an
// optional covenant.
type Output struct {
	Value    Amount
	Address  []byte
	Covenant Covenant
}

// IsUnspendable reports whether the output can never be added to the coin
// set (a zero-length address with no covenant data, matching an
// unspendable/OP_RETURN-style output).
func (o Output) IsUnspendable() bool {
	return len(o.Address) == 0 && o.Covenant.Type == CovenantNone
}

// Input spends a previous output.
type Input struct {
	Previous  Outpoint
	Sequence  uint32
	Witness   [][]byte
}

// Transaction is a full UTXO transaction.
type Transaction struct {
	Version  uint32
	Inputs   []Input
	Outputs  []Output
	LockTime uint32
}

// IsCoinbase reports whether this is the block's coinbase transaction: a
// single input spending the null outpoint.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].Previous.IsNull()
}

// Hash returns the transaction's identifying hash.
func (tx *Transaction) Hash() Hash {
	enc, err := rlp.EncodeToBytes(tx)
	if err != nil {
		panic(err)
	}
	return hashBytes(enc)
}


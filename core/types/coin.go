package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// CoinEntry is the spendable form of an output: its value/address/covenant
// plus the height it was created at, which downstream maturity rules (not
// this package's concern) key off of.
type CoinEntry struct {
	Height   Height
	Coinbase bool
	Output   Output
}

// EncodeCoinEntry and DecodeCoinEntry are the wire format for the
// `c(txid, index)` meta-store record.
func EncodeCoinEntry(c *CoinEntry) ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

func DecodeCoinEntry(data []byte) (*CoinEntry, error) {
	var c CoinEntry
	if err := rlp.DecodeBytes(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

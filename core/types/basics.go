// Package types defines the on-disk and in-memory data model for chaindb:
// outpoints, outputs, transactions, blocks, chain entries, coin and name
// state, and the small aggregate records chaindb persists under a single
// key (ChainState, TreeState, ChainFlags, StateCache).
package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Hash is a 32-byte identifier: a block hash, transaction hash, name hash,
// or tree node hash. Reused directly from go-ethereum rather than redefined,
// since every hash in this module is a plain 32-byte Blake2b/double-SHA256
// digest with no chain-specific structure.
type Hash = common.Hash

// Height is a block height. Genesis is height 0.
type Height = uint32

// Amount is a quantity of the chain's base unit. Negative amounts never
// occur; the type is unsigned so overflow in subtraction is a bug, not a
// representable value.
type Amount = uint64

// ZeroHash is the canonical representation of "no hash" (an absent parent,
// an absent tree root before genesis, a coinbase's null previous outpoint).
var ZeroHash Hash

package types

// ChainFlags is the persisted `O` record: the node's network id and the
// storage/indexing options chosen at first open. Fixed-width, encoded
// directly with encoding/binary rather than RLP, matching the schema
// record's own hand-rolled layout (spec.md §6).
type ChainFlags struct {
	Network      uint32
	SPV          bool
	Prune        bool
	IndexTX      bool
	IndexAddress bool
}

const chainFlagsSize = 4 + 1

const (
	flagSPV          = 1 << 0
	flagPrune        = 1 << 1
	flagIndexTX      = 1 << 2
	flagIndexAddress = 1 << 3
)

// EncodeChainFlags writes the fixed 5-byte `O` record: u32-LE network id
// followed by a single flag-bits byte.
func EncodeChainFlags(f *ChainFlags) []byte {
	out := make([]byte, chainFlagsSize)
	putUint32(out[0:4], f.Network)
	var bits byte
	if f.SPV {
		bits |= flagSPV
	}
	if f.Prune {
		bits |= flagPrune
	}
	if f.IndexTX {
		bits |= flagIndexTX
	}
	if f.IndexAddress {
		bits |= flagIndexAddress
	}
	out[4] = bits
	return out
}

// DecodeChainFlags parses the `O` record written by EncodeChainFlags.
func DecodeChainFlags(data []byte) (*ChainFlags, bool) {
	if len(data) < chainFlagsSize {
		return nil, false
	}
	bits := data[4]
	return &ChainFlags{
		Network:      getUint32(data[0:4]),
		SPV:          bits&flagSPV != 0,
		Prune:        bits&flagPrune != 0,
		IndexTX:      bits&flagIndexTX != 0,
		IndexAddress: bits&flagIndexAddress != 0,
	}, true
}

// Compatible reports whether a newly-supplied set of flags is compatible
// with the flags already persisted on disk: the network id and the
// storage-shape flags (spv, prune, indexTX, indexAddress) may not change
// after first open, mirroring the teacher's ChainConfig.CheckCompatible
// gate on schema-affecting settings.
func (f *ChainFlags) Compatible(other *ChainFlags) bool {
	return f.Network == other.Network &&
		f.SPV == other.SPV &&
		f.Prune == other.Prune &&
		f.IndexTX == other.IndexTX &&
		f.IndexAddress == other.IndexAddress
}

// Package params holds the per-network constants a ChainDB is opened
// with: the genesis header, the tree-commit interval, and the block
// retention window. Grounded on the teacher's package-level
// MainnetChainConfig/SepoliaChainConfig var shape (params/config.go), with
// the Ethereum fork-schedule fields replaced by this chain's own
// engine constants (spec.md §6's "ChainDB is opened with a fixed
// treeInterval... and keepBlocks/pruneAfterHeight").
package params

import "github.com/hnsd/chaind/core/types"

// Network identifies which preset a ChainDB was opened against; part of
// the persisted ChainFlags record, so a database can never be reopened
// against the wrong network's genesis (spec.md §7 item 1).
const (
	NetworkMain uint32 = iota
	NetworkTestnet
	NetworkRegtest
	NetworkSimnet
)

// NetworkConfig bundles the fixed, network-wide constants ChainDB needs at
// Open time but never persists itself (those live in ChainFlags).
type NetworkConfig struct {
	Network          uint32
	TreeInterval     types.Height
	KeepBlocks       uint32
	PruneAfterHeight uint32
	Genesis          types.Header
}

var (
	// MainConfig is the network parameters for the main network.
	MainConfig = &NetworkConfig{
		Network:          NetworkMain,
		TreeInterval:     36,
		KeepBlocks:       288,
		PruneAfterHeight: 2016,
		Genesis:          types.Header{Bits: 0x1d00ffff},
	}

	// TestnetConfig is the network parameters for the public test
	// network. It uses the same tree interval and retention window as
	// MainConfig.
	TestnetConfig = &NetworkConfig{
		Network:          NetworkTestnet,
		TreeInterval:     36,
		KeepBlocks:       288,
		PruneAfterHeight: 2016,
		Genesis:          types.Header{Bits: 0x1d00ffff},
	}

	// RegtestConfig is the network parameters for a locally-controlled
	// regression-test network: every block is a tree-commit boundary and
	// nothing is pruned, so tests can assert on exact tree roots after
	// each block.
	RegtestConfig = &NetworkConfig{
		Network:          NetworkRegtest,
		TreeInterval:     1,
		KeepBlocks:       0,
		PruneAfterHeight: 0,
		Genesis:          types.Header{Bits: 0x207fffff},
	}

	// SimnetConfig mirrors RegtestConfig for single-process simulation
	// harnesses, kept distinct so flag compatibility (spec.md §7 item 1)
	// rejects a simnet database opened as regtest or vice versa.
	SimnetConfig = &NetworkConfig{
		Network:          NetworkSimnet,
		TreeInterval:     1,
		KeepBlocks:       0,
		PruneAfterHeight: 0,
		Genesis:          types.Header{Bits: 0x207fffff},
	}
)

// Deployment bit positions for the versionbit soft-fork signaling table
// (core/types/deployment.go), mirroring the teacher's per-fork constant
// block-number fields in ChainConfig but expressed as the bit index a
// StateCache tracks rather than an activation height.
const (
	DeploymentTestDummy uint8 = iota
	DeploymentNameCovenants
)

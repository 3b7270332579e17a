package chaindb

import (
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hnsd/chaind/blobstore"
	"github.com/hnsd/chaind/cache"
	"github.com/hnsd/chaind/core/rawdb"
	"github.com/hnsd/chaind/core/types"
	"github.com/hnsd/chaind/tree"
)

// Config bundles the options Open needs: the persisted chain flags to
// verify or install, and the chain-mutation-engine parameters that are
// not part of the on-disk schema (spec.md mentions treeInterval,
// keepBlocks, pruneAfterHeight as engine constants, not stored flags).
type Config struct {
	Flags            types.ChainFlags
	TreeInterval     types.Height
	KeepBlocks       uint32
	PruneAfterHeight uint32
	TreePath         string // directory for the tree's node store; "" = in-memory
}

// ChainDB is the persistence and state-management core (spec.md §1): it
// owns the meta store (A), the blob store (B, nil in SPV mode), the
// authenticated tree (C), the entry and coin caches (F), and the
// in-memory ChainState/TreeState/StateCache records (E), coordinating
// their mutation through the batch coordinator (G).
type ChainDB struct {
	meta  *rawdb.Database
	blobs *blobstore.Store
	tree  *tree.Tree

	// nameTxn is the tree's long-lived working transaction: every block's
	// name-state changes stage into it regardless of height, and it is
	// only committed at a tree-commit interval. It must be rebuilt (a
	// fresh cdb.tree.Txn()) any time cdb.tree.Inject runs, since Inject
	// moves the tree's root out from under whatever this txn was anchored
	// on (spec.md §5).
	nameTxn *tree.Txn

	entries     *cache.EntryCache
	coins       *cache.CoinCache
	deployCache *types.StateCache

	flags      *types.ChainFlags
	state      *types.ChainState
	treeState  *types.TreeState
	deployTable *types.DeploymentTable

	genesis *types.ChainEntry

	treeInterval     types.Height
	keepBlocks       uint32
	pruneAfterHeight uint32
	treePath         string

	batch *Batch
}

// Open opens (or initializes) a ChainDB against an already-open meta-store
// database, an optional blob-store database (nil in SPV mode), and a
// genesis entry/block used to bootstrap an empty database. Grounded on
// the teacher's mive.New (stack.OpenDatabaseWithFreezer + pruner recovery)
// for the overall open-sequence shape, and on core/genesis.go's
// SetupGenesisBlockWithOverride for the stored-vs-supplied compatibility
// check.
func Open(metaDB ethdb.Database, blobDB ethdb.Database, cfg Config, genesisHeader types.Header) (*ChainDB, error) {
	meta := rawdb.Wrap(metaDB)

	cdb := &ChainDB{
		meta:             meta,
		entries:          cache.NewEntryCache(),
		coins:            cache.NewCoinCache(),
		deployCache:      types.NewStateCache(),
		treeInterval:     cfg.TreeInterval,
		keepBlocks:       cfg.KeepBlocks,
		pruneAfterHeight: cfg.PruneAfterHeight,
		treePath:         cfg.TreePath,
	}
	if !cfg.Flags.SPV {
		if blobDB == nil {
			return nil, fmt.Errorf("chaindb: blob database required unless SPV")
		}
		cdb.blobs = blobstore.Open(blobDB)
	}

	t, err := tree.Open(cfg.TreePath)
	if err != nil {
		return nil, err
	}
	cdb.tree = t

	version, ok := rawdb.ReadSchemaVersion(meta)
	if !ok {
		return cdb.initGenesis(meta, cfg, genesisHeader)
	}
	if version != rawdb.SchemaVersion {
		return nil, ErrSchemaMismatch
	}

	flags := rawdb.ReadChainFlags(meta)
	if flags == nil {
		log.Crit("chaindb: missing chain flags record")
	}
	if !flags.Compatible(&cfg.Flags) {
		return nil, ErrFlagsMismatch
	}
	cdb.flags = flags

	state := rawdb.ReadChainState(meta)
	if state == nil {
		log.Crit("chaindb: missing chain state record")
	}
	cdb.state = state

	treeState := rawdb.ReadTreeState(meta)
	if treeState == nil {
		log.Crit("chaindb: missing tree state record")
	}
	cdb.treeState = treeState
	cdb.tree.Inject(treeState.TreeRoot)
	cdb.nameTxn = cdb.tree.Txn()

	table, ok := rawdb.ReadDeploymentTable(meta)
	if !ok {
		log.Crit("chaindb: missing deployment table")
	}
	cdb.deployTable = table

	genesisEntry := rawdb.ReadEntry(meta, func() types.Hash {
		h, _ := rawdb.ReadHashByHeight(meta, 0)
		return h
	}())
	if genesisEntry == nil {
		log.Crit("chaindb: missing genesis entry")
	}
	cdb.genesis = genesisEntry

	return cdb, nil
}

// initGenesis writes the fresh-open bootstrap records spec.md §8 scenario
// 1 describes: schema version, default flags, empty deployment table, the
// genesis ChainEntry and its H/h/p/R/s records (genesis has no successor
// yet, so no `n` record is written).
func (cdb *ChainDB) initGenesis(meta *rawdb.Database, cfg Config, header types.Header) (*ChainDB, error) {
	genesis := types.NewChainEntry(header, 0)
	cdb.genesis = genesis
	cdb.flags = &cfg.Flags
	cdb.state = &types.ChainState{Tip: genesis.Hash, Committed: true}
	cdb.treeState = &types.TreeState{Committed: true}
	cdb.deployTable = &types.DeploymentTable{}
	cdb.tree.Inject(types.ZeroHash)
	cdb.nameTxn = cdb.tree.Txn()

	batch := meta.NewBatch()
	rawdb.WriteSchemaVersion(batch, rawdb.SchemaVersion)
	rawdb.WriteChainFlags(batch, cdb.flags)
	rawdb.WriteDeploymentTable(batch, cdb.deployTable)
	rawdb.WriteEntry(batch, genesis)
	rawdb.WriteHeightByHash(batch, genesis.Hash, 0)
	rawdb.WriteHashByHeight(batch, 0, genesis.Hash)
	rawdb.WriteTip(batch, genesis.Hash)
	rawdb.WriteChainState(batch, cdb.state)
	rawdb.WriteTreeState(batch, cdb.treeState)
	if err := batch.Write(); err != nil {
		return nil, err
	}
	cdb.entries.PutByHash(genesis)
	cdb.entries.PutHashByHeight(0, genesis.Hash)
	return cdb, nil
}

// Close releases the tree and blob-store handles.
func (cdb *ChainDB) Close() error {
	if err := cdb.tree.Close(); err != nil {
		return err
	}
	if cdb.blobs != nil {
		return cdb.blobs.Close()
	}
	return nil
}

// Genesis returns the genesis entry.
func (cdb *ChainDB) Genesis() *types.ChainEntry { return cdb.genesis }

// Flags returns the persisted chain flags.
func (cdb *ChainDB) Flags() *types.ChainFlags { return cdb.flags }

// SaveFlags persists a new ChainFlags record directly (outside the normal
// batch lifecycle: flags are a rare, operator-driven change, not part of
// per-block connect/disconnect traffic).
func (cdb *ChainDB) SaveFlags(flags types.ChainFlags) error {
	batch := cdb.meta.NewBatch()
	rawdb.WriteChainFlags(batch, &flags)
	if err := batch.Write(); err != nil {
		return err
	}
	cdb.flags = &flags
	return nil
}

// VerifyFlags checks candidate flags against the persisted record without
// mutating anything, the read-only half of spec.md §6's
// saveFlags/verifyFlags pair.
func (cdb *ChainDB) VerifyFlags(flags types.ChainFlags) error {
	if !cdb.flags.Compatible(&flags) {
		return ErrFlagsMismatch
	}
	return nil
}

// SaveDeployments persists a new deployment table.
func (cdb *ChainDB) SaveDeployments(table types.DeploymentTable) error {
	batch := cdb.meta.NewBatch()
	rawdb.WriteDeploymentTable(batch, &table)
	if err := batch.Write(); err != nil {
		return err
	}
	cdb.deployTable = &table
	return nil
}

// VerifyDeployments checks that every bit of a candidate table is declared
// in the persisted table (the candidate's bits are a subset of the
// persisted ones). A persisted table that failed to decode reads as empty,
// so every candidate bit is then rejected; no versionbit cache entries are
// invalidated here.
func (cdb *ChainDB) VerifyDeployments(table types.DeploymentTable) bool {
	for _, d := range table.Deployments {
		if !cdb.deployTable.IsValid(d.Bit) {
			return false
		}
	}
	return true
}

// onTreeInterval reports whether height falls on a tree-commit boundary.
func (cdb *ChainDB) onTreeInterval(height types.Height) bool {
	return cdb.treeInterval != 0 && height%cdb.treeInterval == 0
}

func (cdb *ChainDB) tmpTreeDir() string {
	return filepath.Join(cdb.treePath, "treePrefix~")
}

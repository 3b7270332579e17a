// Package chaindb implements the chain mutation engine (H), UTXO and
// name-state application (I), and read API (J): the top-level ChainDB
// type that coordinates the meta store, blob store, authenticated tree,
// and caches under one atomic-commit discipline.
package chaindb

import "errors"

// Operational-class errors: returned to the caller, never panicked.
// Mirrors spec.md §7 item 3's "mode conflicts ... fail fast with a
// descriptive error, no state change" and item 1's version-mismatch gate.
var (
	ErrBatchActive      = errors.New("chaindb: a batch is already active")
	ErrNoBatch          = errors.New("chaindb: no active batch")
	ErrSchemaMismatch   = errors.New("chaindb: schema version mismatch, run migrations")
	ErrFlagsMismatch    = errors.New("chaindb: incompatible chain flags")
	ErrAlreadyPruned    = errors.New("chaindb: already pruned")
	ErrPruneTooSmall    = errors.New("chaindb: nothing to prune")
	ErrPrunedReset      = errors.New("chaindb: cannot reset a pruned chain")
	ErrTreeCompacted    = errors.New("chaindb: tree already compacted at this root")
	ErrSPVMode          = errors.New("chaindb: operation not available in SPV mode")
	ErrNotOnMainChain   = errors.New("chaindb: entry is not on the main chain")
	ErrReconnectParent  = errors.New("chaindb: reconnect target is not the current tip's child")
	ErrMissingUndo      = errors.New("chaindb: missing undo record for block")
)

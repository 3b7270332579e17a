package rawdb

import (
	"github.com/ethereum/go-ethereum/ethdb"
)

// Database is the ordered key-value meta store (component A): a thin
// wrapper over ethdb.Database/ethdb.Batch adding nothing but a narrower,
// chaindb-specific surface, matching the teacher's direct use of
// ethdb.Database/ethdb.Batch throughout core/*.go rather than introducing
// a bespoke storage interface.
type Database struct {
	ethdb.Database
}

// Wrap adapts a raw ethdb.Database into the meta store.
func Wrap(db ethdb.Database) *Database {
	return &Database{Database: db}
}

// NewBatch starts a new key-value batch. Batch lifetime is owned by the
// caller (the chaindb batch coordinator), never by Database itself.
func (d *Database) NewBatch() ethdb.Batch {
	return d.Database.NewBatch()
}

// Range iterates every key with the given prefix, invoking fn with the key
// (prefix stripped) and value until fn returns false or the iterator is
// exhausted.
func (d *Database) Range(prefix []byte, fn func(key, value []byte) bool) error {
	it := d.Database.NewIterator(prefix, nil)
	defer it.Release()
	for it.Next() {
		key := it.Key()[len(prefix):]
		if !fn(key, it.Value()) {
			break
		}
	}
	return it.Error()
}

package blobstore

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/ethdb/memorydb"

	"github.com/hnsd/chaind/core/types"
)

func TestWriteReadBlockAndUndo(t *testing.T) {
	store := Open(memorydb.New())
	hash := types.NameHash("block")

	if store.ReadBlock(hash) != nil {
		t.Fatalf("block present before write")
	}

	b := store.NewBatch()
	b.WriteBlock(hash, []byte("block-bytes"))
	b.WriteUndo(hash, []byte("undo-bytes"))
	if err := b.CommitWrites(); err != nil {
		t.Fatalf("CommitWrites: %v", err)
	}

	if got := store.ReadBlock(hash); !bytes.Equal(got, []byte("block-bytes")) {
		t.Fatalf("ReadBlock = %q, want %q", got, "block-bytes")
	}
	if got := store.ReadUndo(hash); !bytes.Equal(got, []byte("undo-bytes")) {
		t.Fatalf("ReadUndo = %q, want %q", got, "undo-bytes")
	}
}

func TestPruneRemovesBlobs(t *testing.T) {
	store := Open(memorydb.New())
	hash := types.NameHash("block")

	writes := store.NewBatch()
	writes.WriteBlock(hash, []byte("data"))
	if err := writes.CommitWrites(); err != nil {
		t.Fatalf("CommitWrites: %v", err)
	}

	prunes := store.NewBatch()
	prunes.PruneBlock(hash)
	if err := prunes.CommitPrunes(); err != nil {
		t.Fatalf("CommitPrunes: %v", err)
	}
	if store.ReadBlock(hash) != nil {
		t.Fatalf("block still present after prune")
	}
}

func TestClearDiscardsStagedWrites(t *testing.T) {
	store := Open(memorydb.New())
	hash := types.NameHash("block")

	b := store.NewBatch()
	b.WriteBlock(hash, []byte("data"))
	b.Clear()
	if err := b.CommitWrites(); err != nil {
		t.Fatalf("CommitWrites: %v", err)
	}
	if store.ReadBlock(hash) != nil {
		t.Fatalf("cleared write was still committed")
	}
}

func TestCommitWritesNoopWhenEmpty(t *testing.T) {
	store := Open(memorydb.New())
	b := store.NewBatch()
	if err := b.CommitWrites(); err != nil {
		t.Fatalf("CommitWrites on empty batch: %v", err)
	}
	if err := b.CommitPrunes(); err != nil {
		t.Fatalf("CommitPrunes on empty batch: %v", err)
	}
}

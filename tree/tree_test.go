package tree

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/ethdb/memorydb"

	"github.com/hnsd/chaind/core/types"
)

func newTestStore() *store {
	return openStore(memorydb.New(), "")
}

func TestNodeEncodeDecodeRoundTrip(t *testing.T) {
	leaf := newLeafNode(types.NameHash("a"), []byte("value"))
	enc, err := encodeNode(leaf)
	if err != nil {
		t.Fatalf("encodeNode: %v", err)
	}
	got, err := decodeNode(enc)
	if err != nil {
		t.Fatalf("decodeNode: %v", err)
	}
	if got.Kind != kindLeaf || got.Key != leaf.Key || !bytes.Equal(got.Value, leaf.Value) {
		t.Fatalf("decoded leaf = %+v, want %+v", got, leaf)
	}

	internal := newInternalNode(7, types.NameHash("sample"), types.NameHash("l"), types.NameHash("r"))
	enc, err = encodeNode(internal)
	if err != nil {
		t.Fatalf("encodeNode internal: %v", err)
	}
	got, err = decodeNode(enc)
	if err != nil {
		t.Fatalf("decodeNode internal: %v", err)
	}
	if got.Kind != kindInternal || got.Depth != 7 || got.Left != internal.Left || got.Right != internal.Right {
		t.Fatalf("decoded internal = %+v, want %+v", got, internal)
	}
}

func TestNodeHashIsStableAndContentAddressed(t *testing.T) {
	a := newLeafNode(types.NameHash("x"), []byte("1"))
	b := newLeafNode(types.NameHash("x"), []byte("1"))
	c := newLeafNode(types.NameHash("x"), []byte("2"))
	if a.hash() != b.hash() {
		t.Fatalf("identical nodes hashed differently")
	}
	if a.hash() == c.hash() {
		t.Fatalf("distinct nodes hashed identically")
	}
}

func TestFirstDiffBit(t *testing.T) {
	var a, b types.Hash
	if got := firstDiffBit(a, b); got != 256 {
		t.Fatalf("firstDiffBit(equal) = %d, want 256", got)
	}
	b[0] = 0x01 // differs in the least significant bit of byte 0
	if got := firstDiffBit(a, b); got != 7 {
		t.Fatalf("firstDiffBit = %d, want 7", got)
	}
}

func TestBitAt(t *testing.T) {
	var h types.Hash
	h[0] = 0x80 // most significant bit set
	if bitAt(h, 0) != 1 {
		t.Fatalf("bitAt(0) = %d, want 1", bitAt(h, 0))
	}
	if bitAt(h, 1) != 0 {
		t.Fatalf("bitAt(1) = %d, want 0", bitAt(h, 1))
	}
}

func TestStoreGetPutRoundTrip(t *testing.T) {
	st := newTestStore()
	n := newLeafNode(types.NameHash("k"), []byte("v"))
	h := n.hash()

	if _, ok := st.get(h); ok {
		t.Fatalf("node present before put")
	}

	batch := st.newBatch()
	st.put(batch, h, n)
	if err := batch.Write(); err != nil {
		t.Fatalf("batch.Write: %v", err)
	}

	got, ok := st.get(h)
	if !ok || got.Kind != kindLeaf || !bytes.Equal(got.Value, []byte("v")) {
		t.Fatalf("store.get = %+v, %v", got, ok)
	}
}

func TestStoreGetZeroHashIsAlwaysAbsent(t *testing.T) {
	st := newTestStore()
	if _, ok := st.get(types.ZeroHash); ok {
		t.Fatalf("ZeroHash resolved to a node")
	}
}

func newTestTree() *Tree {
	tr, err := Open("")
	if err != nil {
		panic(err)
	}
	return tr
}

func TestTxnInsertGetSingleKey(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()
	key := types.NameHash("example")

	tx.Insert(key, []byte("hello"))

	got, ok := tx.Get(key)
	if !ok || !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("Get after Insert = %q, %v, want %q, true", got, ok, "hello")
	}
}

func TestTxnInsertMultipleKeysAndUpdate(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()

	keys := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, k := range keys {
		tx.Insert(types.NameHash(k), []byte(k))
	}
	for _, k := range keys {
		got, ok := tx.Get(types.NameHash(k))
		if !ok || string(got) != k {
			t.Fatalf("Get(%q) = %q, %v, want %q, true", k, got, ok, k)
		}
	}

	// Overwrite an existing key and confirm the others are untouched.
	tx.Insert(types.NameHash("bravo"), []byte("updated"))
	got, ok := tx.Get(types.NameHash("bravo"))
	if !ok || string(got) != "updated" {
		t.Fatalf("Get(bravo) after update = %q, %v, want updated, true", got, ok)
	}
	got, ok = tx.Get(types.NameHash("alpha"))
	if !ok || string(got) != "alpha" {
		t.Fatalf("unrelated key alpha disturbed by update: %q, %v", got, ok)
	}
}

func TestTxnGetMissingKey(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()
	tx.Insert(types.NameHash("present"), []byte("v"))

	if _, ok := tx.Get(types.NameHash("absent")); ok {
		t.Fatalf("Get found a key that was never inserted")
	}
}

func TestTxnRemoveCollapsesSibling(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()

	tx.Insert(types.NameHash("one"), []byte("1"))
	tx.Insert(types.NameHash("two"), []byte("2"))

	tx.Remove(types.NameHash("one"))
	if _, ok := tx.Get(types.NameHash("one")); ok {
		t.Fatalf("removed key still present")
	}
	got, ok := tx.Get(types.NameHash("two"))
	if !ok || string(got) != "2" {
		t.Fatalf("surviving sibling lost after remove: %q, %v", got, ok)
	}

	// The tree should now hold exactly one leaf at the root.
	root, ok := tx.load(tx.root)
	if !ok || root.Kind != kindLeaf {
		t.Fatalf("root after collapsing remove = %+v, want a single leaf", root)
	}
}

func TestTxnRemoveMissingKeyIsNoop(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()
	tx.Insert(types.NameHash("a"), []byte("1"))
	before := tx.root

	tx.Remove(types.NameHash("nonexistent"))
	if tx.root != before {
		t.Fatalf("root changed after removing an absent key")
	}
}

func TestTxnRemoveLastKeyEmptiesTree(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()
	key := types.NameHash("only")
	tx.Insert(key, []byte("v"))
	tx.Remove(key)

	if tx.root != types.ZeroHash {
		t.Fatalf("root = %v after removing the only key, want ZeroHash", tx.root)
	}
}

func TestTxnCommitPersistsToStoreAndAdvancesOwnerRoot(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()

	key := types.NameHash("committed")
	tx.Insert(key, []byte("data"))

	root, err := tx.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if tr.RootHash() != root {
		t.Fatalf("tr.RootHash() = %v after Commit, want %v", tr.RootHash(), root)
	}

	// A fresh snapshot at the committed root (no dirty overlay) must see
	// the leaf written by the transaction.
	got, ok := tr.Snapshot(root).Get(key)
	if !ok || string(got) != "data" {
		t.Fatalf("post-commit snapshot read = %q, %v, want data, true", got, ok)
	}
}

func TestProveAndVerifyMembership(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()

	keys := []string{"foo", "bar", "baz", "qux"}
	for _, k := range keys {
		tx.Insert(types.NameHash(k), []byte(k))
	}
	root, err := tx.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	target := types.NameHash("baz")
	proof, err := tr.Snapshot(root).Prove(target)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if proof.Value == nil || string(proof.Value) != "baz" {
		t.Fatalf("proof.Value = %q, want baz", proof.Value)
	}
	if !Verify(root, proof) {
		t.Fatalf("Verify rejected a valid membership proof")
	}
}

func TestProveAndVerifyNonMembership(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()

	for _, k := range []string{"foo", "bar", "baz"} {
		tx.Insert(types.NameHash(k), []byte(k))
	}
	root, err := tx.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	proof, err := tr.Snapshot(root).Prove(types.NameHash("absent"))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if proof.Value != nil {
		t.Fatalf("non-membership proof carried a value: %q", proof.Value)
	}
	if !Verify(root, proof) {
		t.Fatalf("Verify rejected a valid non-membership proof")
	}
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	tr := newTestTree()
	tx := tr.Txn()

	for _, k := range []string{"foo", "bar", "baz"} {
		tx.Insert(types.NameHash(k), []byte(k))
	}
	root, err := tx.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	proof, err := tr.Snapshot(root).Prove(types.NameHash("foo"))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	proof.Value = []byte("tampered")
	if Verify(root, proof) {
		t.Fatalf("Verify accepted a tampered value")
	}
}

func TestProveEmptyTree(t *testing.T) {
	tr := newTestTree()
	proof, err := tr.Snapshot(types.ZeroHash).Prove(types.NameHash("anything"))
	if err != nil {
		t.Fatalf("Prove on empty tree: %v", err)
	}
	if proof.Value != nil || len(proof.Steps) != 0 {
		t.Fatalf("proof on empty tree = %+v, want empty", proof)
	}
	if !Verify(types.ZeroHash, proof) {
		t.Fatalf("Verify rejected an empty-tree non-membership proof")
	}
}

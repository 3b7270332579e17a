package types

import "testing"

func TestTransactionIsCoinbase(t *testing.T) {
	coinbase := &Transaction{Inputs: []Input{{Previous: Outpoint{Hash: ZeroHash, Index: 0xffffffff}}}}
	if !coinbase.IsCoinbase() {
		t.Fatalf("null-outpoint single-input tx not reported coinbase")
	}

	normal := &Transaction{Inputs: []Input{{Previous: Outpoint{Hash: NameHash("x"), Index: 0}}}}
	if normal.IsCoinbase() {
		t.Fatalf("real-outpoint tx reported coinbase")
	}
}

func TestTransactionHashStable(t *testing.T) {
	tx := &Transaction{
		Version: 1,
		Outputs: []Output{{Value: 10, Address: []byte("addr")}},
	}
	h1 := tx.Hash()
	h2 := tx.Hash()
	if h1 != h2 {
		t.Fatalf("Transaction.Hash not stable across calls")
	}

	other := &Transaction{Version: 2, Outputs: tx.Outputs}
	if other.Hash() == h1 {
		t.Fatalf("distinct transactions hashed identically")
	}
}

func TestOutpointIsNull(t *testing.T) {
	if !(Outpoint{Hash: ZeroHash, Index: 0xffffffff}).IsNull() {
		t.Fatalf("canonical null outpoint not reported null")
	}
	if (Outpoint{Hash: ZeroHash, Index: 0}).IsNull() {
		t.Fatalf("index-0 zero-hash outpoint reported null")
	}
}

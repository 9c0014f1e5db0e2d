package wallet

import (
	"testing"

	"github.com/sandichain/node/pkg/crypto"
)

func TestKeystore_SaveLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	ks, err := NewKeystore(dir)
	if err != nil {
		t.Fatalf("NewKeystore: %v", err)
	}

	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	password := []byte("hunter2")

	if err := ks.Save("node", kp, password, DefaultParams()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := ks.Load("node", password)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Address != kp.Address {
		t.Fatalf("got address %q, want %q", loaded.Address, kp.Address)
	}
}

func TestKeystore_SaveRejectsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	ks, _ := NewKeystore(dir)
	kp, _ := crypto.GenerateKeyPair()

	if err := ks.Save("node", kp, []byte("pw"), DefaultParams()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := ks.Save("node", kp, []byte("pw"), DefaultParams()); err == nil {
		t.Fatalf("expected second Save with the same name to fail")
	}
}

func TestKeystore_List(t *testing.T) {
	dir := t.TempDir()
	ks, _ := NewKeystore(dir)
	kp, _ := crypto.GenerateKeyPair()
	_ = ks.Save("alice", kp, []byte("pw"), DefaultParams())
	_ = ks.Save("bob", kp, []byte("pw"), DefaultParams())

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 key files, got %d", len(names))
	}
}

func TestKeystore_Delete(t *testing.T) {
	dir := t.TempDir()
	ks, _ := NewKeystore(dir)
	kp, _ := crypto.GenerateKeyPair()
	_ = ks.Save("node", kp, []byte("pw"), DefaultParams())

	if err := ks.Delete("node"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := ks.Delete("node"); err == nil {
		t.Fatalf("expected deleting an already-deleted key to fail")
	}
}

package storage

import (
	"context"
	"testing"

	"github.com/sandichain/node/internal/chain"
	"github.com/sandichain/node/pkg/tx"
)

func TestChainStore_SaveAndLoadChain(t *testing.T) {
	c := chain.New(1, 1000)
	if _, err := c.AddBlock(context.Background(), []*tx.Transaction{}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	if _, err := c.AddBlock(context.Background(), []*tx.Transaction{}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}

	store := NewChainStore(NewMemory())
	if err := store.SaveChain(c.Blocks()); err != nil {
		t.Fatalf("SaveChain: %v", err)
	}

	loaded, err := store.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	if len(loaded) != c.Len() {
		t.Fatalf("LoadChain returned %d blocks, want %d", len(loaded), c.Len())
	}
	for i, b := range loaded {
		if b.Hash != c.Blocks()[i].Hash {
			t.Fatalf("block %d hash mismatch: got %s want %s", i, b.Hash, c.Blocks()[i].Hash)
		}
	}
}

func TestChainStore_LoadChain_EmptyStoreReturnsNil(t *testing.T) {
	store := NewChainStore(NewMemory())
	loaded, err := store.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil chain from empty store, got %d blocks", len(loaded))
	}
}

func TestChainStore_SaveAndLoadMempool(t *testing.T) {
	store := NewChainStore(NewMemory())
	pool := map[string]*tx.Transaction{
		"tx-1": {ID: "tx-1", OutputMap: tx.OutputMap{"addr-a": 10}},
	}
	if err := store.SaveMempool(pool); err != nil {
		t.Fatalf("SaveMempool: %v", err)
	}

	loaded, err := store.LoadMempool()
	if err != nil {
		t.Fatalf("LoadMempool: %v", err)
	}
	if len(loaded) != 1 || loaded["tx-1"].ID != "tx-1" {
		t.Fatalf("LoadMempool = %+v, want one entry for tx-1", loaded)
	}
}

func TestChainStore_LoadMempool_EmptyStoreReturnsEmptyMap(t *testing.T) {
	store := NewChainStore(NewMemory())
	loaded, err := store.LoadMempool()
	if err != nil {
		t.Fatalf("LoadMempool: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(loaded))
	}
}

func TestChainStore_BadgerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	store := NewChainStore(db)
	defer store.Close()

	c := chain.New(1, 1000)
	if _, err := c.AddBlock(context.Background(), []*tx.Transaction{}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	if err := store.SaveChain(c.Blocks()); err != nil {
		t.Fatalf("SaveChain: %v", err)
	}

	loaded, err := store.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	if len(loaded) != c.Len() {
		t.Fatalf("LoadChain returned %d blocks, want %d", len(loaded), c.Len())
	}
}

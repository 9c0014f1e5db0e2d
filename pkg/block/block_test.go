package block

import (
	"context"
	"testing"

	"github.com/sandichain/node/pkg/tx"
)

func TestGenesis_MatchesLiteralConstant(t *testing.T) {
	g := Genesis(4)
	if g.Timestamp != 1 || g.LastHash != "-----" || g.Hash != "genesis-hash" || g.Nonce != 0 || g.Difficulty != 4 {
		t.Fatalf("genesis block does not match the literal constant: %+v", g)
	}
	if len(g.Data) != 0 {
		t.Fatalf("expected empty genesis data")
	}
}

func TestMineBlock_ProducesHashSatisfyingDifficulty(t *testing.T) {
	last := Genesis(2)
	mined, err := MineBlock(context.Background(), last, []*tx.Transaction{}, 1000)
	if err != nil {
		t.Fatalf("MineBlock: %v", err)
	}
	if err := VerifySeal(mined); err != nil {
		t.Fatalf("VerifySeal: %v", err)
	}
	if err := VerifyLinkage(last, mined); err != nil {
		t.Fatalf("VerifyLinkage: %v", err)
	}
}

func TestMineBlock_ObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	last := Genesis(1)
	_, err := MineBlock(ctx, last, []*tx.Transaction{}, 1000)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestAdjustDifficulty_RaisesOnFastBlocks(t *testing.T) {
	last := &Block{Timestamp: 1000, Difficulty: 4}
	got := AdjustDifficulty(last, 1500, 1000)
	if got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}

func TestAdjustDifficulty_LowersOnSlowBlocks(t *testing.T) {
	last := &Block{Timestamp: 1000, Difficulty: 4}
	got := AdjustDifficulty(last, 3000, 1000)
	if got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestAdjustDifficulty_NeverDropsBelowOne(t *testing.T) {
	last := &Block{Timestamp: 1000, Difficulty: 1}
	got := AdjustDifficulty(last, 3000, 1000)
	if got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestHash_IsPureAndDeterministic(t *testing.T) {
	h1, err := Hash(100, "abc", []*tx.Transaction{}, 5, 3)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash(100, "abc", []*tx.Transaction{}, 5, 3)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected deterministic hash, got %s and %s", h1, h2)
	}

	h3, err := Hash(100, "abc", []*tx.Transaction{}, 6, 3)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h3 {
		t.Fatalf("expected hash to change with nonce")
	}
}

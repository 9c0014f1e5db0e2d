// Package chain implements the replicated ledger: a nonempty, ordered
// sequence of blocks rooted at the constant genesis block, with the
// longest-valid-chain rule as its sole fork-choice function.
package chain

import (
	"context"
	"fmt"
	"sync"

	klog "github.com/sandichain/node/internal/log"
	"github.com/sandichain/node/pkg/block"
	"github.com/sandichain/node/pkg/tx"
)

// Chain holds the authoritative block sequence. All mutation goes
// through addBlock/ReplaceChain under mu; readers take a copy rather than
// holding the lock across any I/O.
type Chain struct {
	mu         sync.RWMutex
	blocks     []*block.Block
	mineRateMs int64
}

// New creates a chain seeded with the genesis block for initialDifficulty.
func New(initialDifficulty uint32, mineRateMs int64) *Chain {
	return &Chain{
		blocks:     []*block.Block{block.Genesis(initialDifficulty)},
		mineRateMs: mineRateMs,
	}
}

// Blocks returns a shallow copy of the current block sequence. Safe to
// read without further locking; the slice is never mutated in place.
func (c *Chain) Blocks() []*block.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*block.Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Len returns the number of blocks in the chain.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// GetLatestBlock returns the chain's tail block.
func (c *Chain) GetLatestBlock() *block.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// AddBlock seals a new block on top of the current tail via
// block.MineBlock (which runs outside any lock: the tail is read under a
// read lock, and re-checked under the write lock before appending) and
// appends it. The caller is
// responsible for the validity of data; AddBlock does not validate
// transactions.
func (c *Chain) AddBlock(ctx context.Context, data []*tx.Transaction) (*block.Block, error) {
	c.mu.RLock()
	tail := c.GetLatestBlockLocked()
	c.mu.RUnlock()

	sealed, err := block.MineBlock(ctx, tail, data, c.mineRateMs)
	if err != nil {
		return nil, fmt.Errorf("mine block: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-verify the tail is unchanged before appending: a concurrent
	// ReplaceChain may have landed while PoW was running.
	if c.blocks[len(c.blocks)-1].Hash != tail.Hash {
		return nil, fmt.Errorf("chain tail changed while mining, discarding sealed block")
	}
	c.blocks = append(c.blocks, sealed)
	return sealed, nil
}

// GetLatestBlockLocked returns the tail block; callers must already hold mu.
func (c *Chain) GetLatestBlockLocked() *block.Block {
	return c.blocks[len(c.blocks)-1]
}

// IsValidChain is a pure structural check: it does not mutate c and reads
// from c only its genesis difficulty, against which candidate's first
// block is compared. It rejects a
// candidate whose first block is not (deep-equal to) genesis, or where any
// adjacent pair fails hash linkage, hash recomputation, the ±1 difficulty
// step, or the proof-of-work predicate. Per-block transaction validity is
// deliberately not checked here (see design notes, Open Question 1) — this
// preserves the permissive behavior the seed scenarios assume.
func (c *Chain) IsValidChain(candidate []*block.Block) bool {
	return IsValidChain(candidate, c.genesisDifficulty())
}

func (c *Chain) genesisDifficulty() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[0].Difficulty
}

// IsValidChain checks candidate against the genesis block generated with
// genesisDifficulty, without reference to any particular Chain instance.
func IsValidChain(candidate []*block.Block, genesisDifficulty uint32) bool {
	if len(candidate) == 0 {
		return false
	}
	genesis := block.Genesis(genesisDifficulty)
	if !candidate[0].Equal(genesis) {
		return false
	}
	for i := 1; i < len(candidate); i++ {
		prev, next := candidate[i-1], candidate[i]
		if err := block.VerifyLinkage(prev, next); err != nil {
			return false
		}
		if err := block.VerifySeal(next); err != nil {
			return false
		}
	}
	return true
}

// ReplaceChain applies the longest-valid-chain rule: a candidate that is
// not strictly longer than the current chain, or that fails IsValidChain,
// is rejected; otherwise it atomically becomes the new chain. The swap is
// observed as a single event by every other component — readers never see
// a torn chain.
func (c *Chain) ReplaceChain(candidate []*block.Block) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(candidate) <= len(c.blocks) {
		klog.Chain.Info().Int("candidate_len", len(candidate)).Int("current_len", len(c.blocks)).
			Msg("rejecting chain: not longer than current chain")
		return false
	}
	if !IsValidChain(candidate, c.blocks[0].Difficulty) {
		klog.Chain.Info().Msg("rejecting chain: failed validation")
		return false
	}

	klog.Chain.Info().Int("old_len", len(c.blocks)).Int("new_len", len(candidate)).Msg("replacing chain")
	c.blocks = candidate
	return true
}

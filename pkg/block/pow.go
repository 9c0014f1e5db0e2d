package block

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandichain/node/pkg/tx"
)

// MineBlock runs the sealing loop: for increasing nonce values it stamps
// the current time, recomputes the adaptive difficulty, and hashes the
// candidate block until the hash satisfies the proof-of-work predicate
// (its first difficulty hex characters are all '0'). It checks ctx on
// every iteration so a newly accepted longer chain can preempt an
// in-flight mine; mining itself never fails on its own, it only loops
// until a valid nonce is found or ctx is cancelled.
func MineBlock(ctx context.Context, lastBlock *Block, data []*tx.Transaction, mineRateMs int64) (*Block, error) {
	var nonce uint64
	for {
		nonce++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		timestamp := time.Now().UnixMilli()
		difficulty := AdjustDifficulty(lastBlock, timestamp, mineRateMs)

		hash, err := Hash(timestamp, lastBlock.Hash, data, nonce, difficulty)
		if err != nil {
			return nil, fmt.Errorf("hash candidate block: %w", err)
		}

		if satisfiesProofOfWork(hash, difficulty) {
			return &Block{
				Timestamp:  timestamp,
				LastHash:   lastBlock.Hash,
				Hash:       hash,
				Data:       data,
				Nonce:      nonce,
				Difficulty: difficulty,
			}, nil
		}
	}
}

// satisfiesProofOfWork reports whether hash starts with difficulty
// leading hex '0' characters.
func satisfiesProofOfWork(hash string, difficulty uint32) bool {
	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}

// AdjustDifficulty computes the next block's difficulty from the previous
// block and a candidate timestamp. The scheme is deliberately aggressive
// — it moves by one per block, never below 1 — so under intermittent mining it
// oscillates rather than converging smoothly; the chain validator only
// enforces the resulting ±1-per-block bound, not convergence.
func AdjustDifficulty(lastBlock *Block, timestamp int64, mineRateMs int64) uint32 {
	if lastBlock.Difficulty < 1 {
		return 1
	}
	if timestamp-lastBlock.Timestamp > mineRateMs {
		if lastBlock.Difficulty <= 1 {
			return 1
		}
		return lastBlock.Difficulty - 1
	}
	return lastBlock.Difficulty + 1
}

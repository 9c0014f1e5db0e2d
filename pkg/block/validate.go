package block

import "fmt"

// absDiff32 returns |a-b| for two uint32 difficulties without overflowing
// into a negative unsigned value.
func absDiff32(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// VerifySeal recomputes b's hash from its own fields and checks it both
// matches the stored Hash and satisfies the proof-of-work predicate at
// b's stated difficulty. It does not check linkage to a previous block —
// that is Chain's job.
func VerifySeal(b *Block) error {
	recomputed, err := Hash(b.Timestamp, b.LastHash, b.Data, b.Nonce, b.Difficulty)
	if err != nil {
		return fmt.Errorf("recompute hash: %w", err)
	}
	if recomputed != b.Hash {
		return fmt.Errorf("stored hash does not match recomputed hash")
	}
	if !satisfiesProofOfWork(b.Hash, b.Difficulty) {
		return fmt.Errorf("hash does not satisfy proof-of-work at difficulty %d", b.Difficulty)
	}
	return nil
}

// VerifyLinkage checks that next correctly follows prev: next.LastHash
// must equal prev.Hash, and the difficulty must not have moved by more
// than one between the two blocks.
func VerifyLinkage(prev, next *Block) error {
	if next.LastHash != prev.Hash {
		return fmt.Errorf("lastHash %q does not match previous block hash %q", next.LastHash, prev.Hash)
	}
	if absDiff32(next.Difficulty, prev.Difficulty) > 1 {
		return fmt.Errorf("difficulty jumped from %d to %d", prev.Difficulty, next.Difficulty)
	}
	return nil
}

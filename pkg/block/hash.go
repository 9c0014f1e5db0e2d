package block

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/sandichain/node/pkg/crypto"
	"github.com/sandichain/node/pkg/tx"
)

// Hash is the pure block-hashing function: SHA-256 over the
// concatenation of the timestamp, lastHash, the canonical serialization
// of data, the nonce, and the difficulty, rendered as lowercase hex.
// Every node must compute this identically, since it both seals blocks
// and re-verifies them on receipt.
func Hash(timestamp int64, lastHash string, data []*tx.Transaction, nonce uint64, difficulty uint32) (string, error) {
	canonicalData, err := crypto.Canonical(data)
	if err != nil {
		return "", fmt.Errorf("canonicalize block data: %w", err)
	}
	payload := fmt.Sprintf("%d%s%s%d%d", timestamp, lastHash, canonicalData, nonce, difficulty)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:]), nil
}

// canonicalBlockBytes serializes a block (including its transactions) to
// canonical JSON, for structural equality checks.
func canonicalBlockBytes(b *Block) ([]byte, error) {
	return crypto.Canonical(b)
}

// Package block defines the block type, its SHA-256 proof-of-work seal,
// and the adaptive difficulty adjustment that targets a fixed inter-block
// time.
package block

import (
	"github.com/sandichain/node/pkg/tx"
)

// Block is an immutable, mined record. Once sealed it is never mutated;
// it is destroyed only when the chain that contains it is replaced
// wholesale.
type Block struct {
	Timestamp  int64             `json:"timestamp"`
	LastHash   string            `json:"lastHash"`
	Hash       string            `json:"hash"`
	Data       []*tx.Transaction `json:"data"`
	Nonce      uint64            `json:"nonce"`
	Difficulty uint32            `json:"difficulty"`
}

// Equal reports whether two blocks are identical in every field,
// including transaction order and content. Used for the genesis-identity
// check in chain validation.
func (b *Block) Equal(other *Block) bool {
	if b == nil || other == nil {
		return b == other
	}
	bj, err1 := canonicalBlockBytes(b)
	oj, err2 := canonicalBlockBytes(other)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(bj) == string(oj)
}

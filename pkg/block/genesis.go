package block

import "github.com/sandichain/node/pkg/tx"

// Genesis returns the constant genesis block, identical on every node.
// Its hash is accepted by identity rather than by satisfying the PoW
// predicate — there is no prior block to have mined it against.
func Genesis(initialDifficulty uint32) *Block {
	return &Block{
		Timestamp:  1,
		LastHash:   "-----",
		Hash:       "genesis-hash",
		Data:       []*tx.Transaction{},
		Nonce:      0,
		Difficulty: initialDifficulty,
	}
}

package tx

import (
	"github.com/google/uuid"

	"github.com/sandichain/node/pkg/crypto"
)

// Coinbase builds the synthetic block-reward transaction a miner appends
// to every block it seals. It carries no cryptographic signature — the
// sentinel CoinbaseSignature stands in for one — since the reward address
// is itself a sentinel, not a real wallet.
func Coinbase(minerAddress crypto.Address, reward uint64) *Transaction {
	return &Transaction{
		ID: uuid.NewString(),
		Input: Input{
			Timestamp: nowMillis(),
			Amount:    reward,
			Address:   crypto.Coinbase,
			Signature: crypto.CoinbaseSignature,
		},
		OutputMap: OutputMap{
			minerAddress: reward,
		},
	}
}

// IsCoinbase reports whether t is a block-reward transaction.
func (t *Transaction) IsCoinbase() bool {
	return t.Input.Address == crypto.Coinbase
}

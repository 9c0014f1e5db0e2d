package tx

import "github.com/sandichain/node/pkg/crypto"

// Validate checks the two structural invariants every transaction must
// satisfy: the output map sums to the declared input amount, and — for
// everything but a coinbase transaction — the input signature verifies
// against the output map under the carried public key. Coinbase
// transactions skip the cryptographic check entirely (see Open Question 2
// in the design notes): the reward address is a sentinel, not a key.
func Validate(t *Transaction) bool {
	if len(t.OutputMap) == 0 {
		return false
	}
	if t.OutputMap.Sum() != t.Input.Amount {
		return false
	}
	if t.IsCoinbase() {
		return t.Input.Signature == crypto.CoinbaseSignature
	}
	return crypto.Verify(t.Input.PublicKey, t.OutputMap, t.Input.Signature)
}

// ValidateCoinbaseReward additionally checks that a coinbase transaction
// has exactly one output and that its value equals the configured mining
// reward. It is kept separate from Validate because the reward amount is
// a network-wide configuration constant, not a property of the
// transaction alone.
func ValidateCoinbaseReward(t *Transaction, miningReward uint64) bool {
	if !t.IsCoinbase() {
		return false
	}
	if len(t.OutputMap) != 1 {
		return false
	}
	for _, v := range t.OutputMap {
		return v == miningReward
	}
	return false
}

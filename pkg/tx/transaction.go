// Package tx defines the transaction model: a signed transfer record with
// a single input and an address-to-amount output map, plus the
// construction and validation rules for it.
package tx

import (
	"errors"
	"fmt"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/google/uuid"

	"github.com/sandichain/node/pkg/crypto"
)

// Sender is the minimal wallet capability Transaction construction needs.
// internal/wallet.Wallet implements this; the interface is defined here,
// not imported from wallet, to keep pkg/tx free of a dependency on the
// balance oracle (which itself needs to read transactions out of blocks).
type Sender interface {
	Address() crypto.Address
	Balance() uint64
	PrivateKey() *secp256k1.PrivateKey
	PublicKeyPEM() string
}

// Construction errors, returned instead of panicking so callers can
// pattern-match on the failure kind.
var (
	ErrInvalidAmount     = errors.New("tx: amount must be positive")
	ErrInsufficientFunds = errors.New("tx: amount exceeds sender balance")
	ErrEmptyOutputMap    = errors.New("tx: output map must have at least one entry")
	ErrOutputSumMismatch = errors.New("tx: output sum does not equal input amount")
	ErrInvalidSignature  = errors.New("tx: signature does not verify")
	ErrInvalidCoinbase   = errors.New("tx: malformed coinbase transaction")
)

// Input is the single declared-balance input of a transaction. Its
// Signature covers the canonical serialization of the sibling OutputMap.
// PublicKey travels alongside so any peer that only ever sees the
// transaction (never the wallet that created it) can verify Signature.
type Input struct {
	Timestamp int64          `json:"timestamp"`
	Amount    uint64         `json:"amount"`
	Address   crypto.Address `json:"address"`
	PublicKey string         `json:"publicKey"`
	Signature string         `json:"signature"`
}

// OutputMap maps recipient addresses (conventionally including a change
// entry back to the sender) to the amount they receive. It must contain
// at least one entry and its values must sum to Input.Amount.
type OutputMap map[crypto.Address]uint64

// Sum returns the total of all output values.
func (m OutputMap) Sum() uint64 {
	var total uint64
	for _, v := range m {
		total += v
	}
	return total
}

// Transaction is a signed transfer record.
type Transaction struct {
	ID        string    `json:"id"`
	Input     Input     `json:"input"`
	OutputMap OutputMap `json:"outputMap"`
}

// New creates a transaction moving amount from sender to recipient, with
// the remainder returned to the sender as a change output. It fails if
// amount is non-positive or exceeds the sender's current balance.
func New(sender Sender, recipient crypto.Address, amount uint64) (*Transaction, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	balance := sender.Balance()
	if amount > balance {
		return nil, ErrInsufficientFunds
	}

	outputMap := OutputMap{
		recipient:       amount,
		sender.Address(): balance - amount,
	}

	t := &Transaction{
		ID: uuid.NewString(),
		Input: Input{
			Timestamp: nowMillis(),
			Amount:    balance,
			Address:   sender.Address(),
			PublicKey: sender.PublicKeyPEM(),
		},
		OutputMap: outputMap,
	}
	if err := t.sign(sender); err != nil {
		return nil, err
	}
	return t, nil
}

// Update merges an additional transfer into an existing pending
// transaction from the same sender: it decrements the sender's change
// output and credits recipient, re-signs the input, and re-issues the id
// and timestamp so peers treat it as a new record. Fails if amount
// exceeds the sender's current change output.
func Update(t *Transaction, sender Sender, recipient crypto.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	senderBalance, ok := t.OutputMap[sender.Address()]
	if !ok || amount > senderBalance {
		return ErrInsufficientFunds
	}

	t.OutputMap[sender.Address()] = senderBalance - amount
	t.OutputMap[recipient] += amount

	t.ID = uuid.NewString()
	t.Input.Timestamp = nowMillis()

	return t.sign(sender)
}

func (t *Transaction) sign(sender Sender) error {
	sig, err := crypto.Sign(sender.PrivateKey(), t.OutputMap)
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	t.Input.Signature = sig
	return nil
}

// nowMillis is overridable in tests that need deterministic timestamps.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// Package wallet implements the node's key-holding side: a random or
// mnemonic-derived keypair, the balance oracle that replaces a UTXO
// index, and optional on-disk encrypted storage.
package wallet

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/sandichain/node/pkg/block"
	"github.com/sandichain/node/pkg/crypto"
	"github.com/sandichain/node/pkg/tx"
)

// StartingBalance is the implicit initial credit for an address that has
// never appeared as a transaction sender. A running node takes its value
// from config's Ledger.StartingBalance; this constant is the default the
// key-generation CLI uses.
const StartingBalance = 1000

// Wallet holds a keypair and satisfies tx.Sender so it can author and
// re-sign transactions directly.
type Wallet struct {
	keyPair         *crypto.KeyPair
	startingBalance uint64
	balance         uint64
}

// New generates a fresh random keypair.
func New(startingBalance uint64) (*Wallet, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Wallet{
		keyPair:         kp,
		startingBalance: startingBalance,
		balance:         startingBalance,
	}, nil
}

// FromKeyPair wraps an already-derived keypair (e.g. loaded from a
// keystore or a mnemonic) into a Wallet.
func FromKeyPair(kp *crypto.KeyPair, startingBalance uint64) *Wallet {
	return &Wallet{
		keyPair:         kp,
		startingBalance: startingBalance,
		balance:         startingBalance,
	}
}

// Address returns the wallet's derived address.
func (w *Wallet) Address() crypto.Address { return w.keyPair.Address }

// Balance returns the wallet's last-refreshed balance. Callers update it
// by calling RefreshBalance against the current chain before authoring a
// new transaction.
func (w *Wallet) Balance() uint64 { return w.balance }

// PrivateKey returns the wallet's signing key.
func (w *Wallet) PrivateKey() *secp256k1.PrivateKey { return w.keyPair.PrivateKey }

// PublicKeyPEM returns the wallet's PEM-encoded public key.
func (w *Wallet) PublicKeyPEM() string { return w.keyPair.PublicKey }

// KeyPair returns the wallet's underlying keypair, for callers (such as
// the keystore) that need to persist or re-derive from it directly.
func (w *Wallet) KeyPair() *crypto.KeyPair { return w.keyPair }

// RefreshBalance recomputes and caches the wallet's balance against chain.
func (w *Wallet) RefreshBalance(chain []*block.Block) uint64 {
	w.balance = CalculateBalance(w.Address(), chain, w.startingBalance)
	return w.balance
}

// CalculateBalance is the balance oracle: it scans chain from the tail
// back to (but excluding) genesis, accumulating every amount credited to
// addr, and stops as soon as it passes a block where addr appears as a
// sender — that transaction's outputMap already encodes addr's
// then-current balance, so everything further back is already reflected
// in it. An address that never sends gets startingBalance as an implicit
// initial credit.
func CalculateBalance(addr crypto.Address, chain []*block.Block, startingBalance uint64) uint64 {
	var outputsTotal uint64
	hasSpent := false

	for i := len(chain) - 1; i >= 1; i-- {
		b := chain[i]
		for _, t := range b.Data {
			if t.Input.Address == addr {
				hasSpent = true
			}
			if amount, ok := t.OutputMap[addr]; ok {
				outputsTotal += amount
			}
		}
		if hasSpent {
			break
		}
	}

	if hasSpent {
		return outputsTotal
	}
	return startingBalance + outputsTotal
}

// NewTransfer authors a fresh, signed transfer from w to recipient.
func (w *Wallet) NewTransfer(recipient crypto.Address, amount uint64) (*tx.Transaction, error) {
	return tx.New(w, recipient, amount)
}

// FromMnemonic derives a wallet's keypair from a BIP-39 mnemonic at the
// first external address of account 0, rather than generating a random
// key. This is additive to the spec's random generateKeyPair() path; it
// exists so the key-generation CLI can offer a recoverable phrase.
func FromMnemonic(mnemonic, passphrase string, startingBalance uint64) (*Wallet, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	account, err := master.DeriveAccount(0, ChangeExternal, 0)
	if err != nil {
		return nil, err
	}
	kp, err := account.KeyPair()
	if err != nil {
		return nil, err
	}
	return FromKeyPair(kp, startingBalance), nil
}

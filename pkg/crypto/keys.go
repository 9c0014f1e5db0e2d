package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// KeyPair is a wallet identity: a secp256k1 private key, its PEM-encoded
// compressed public key, and the address derived from it. The private key
// never leaves the owning process.
type KeyPair struct {
	PrivateKey *secp256k1.PrivateKey
	PublicKey  string // PEM-encoded compressed public key.
	Address    Address
}

// GenerateKeyPair creates a new secp256k1 identity from OS entropy. The
// only failure mode is entropy exhaustion, which callers should treat as
// fatal.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return keyPairFromPrivate(priv)
}

// KeyPairFromBytes rebuilds a KeyPair from a raw 32-byte private scalar,
// used to restore a wallet from a persisted or mnemonic-derived key.
func KeyPairFromBytes(raw []byte) (*KeyPair, error) {
	if len(raw) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(raw))
	}
	return keyPairFromPrivate(secp256k1.PrivKeyFromBytes(raw))
}

func keyPairFromPrivate(priv *secp256k1.PrivateKey) (*KeyPair, error) {
	pubBytes := priv.PubKey().SerializeCompressed()
	addr, err := DeriveAddress(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("derive address: %w", err)
	}
	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  EncodePublicKeyPEM(pubBytes),
		Address:    addr,
	}, nil
}

// Package crypto provides the cryptographic primitives the rest of the
// node builds on: secp256k1 key generation, deterministic canonical
// serialization, signing/verification, and address derivation.
package crypto

import (
	"crypto/sha256"
	"encoding/pem"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"
)

// Address identifies a wallet. Ordinary addresses are Base58Check-encoded
// public-key hashes; two sentinel values are not derivable from any key
// and exist only to identify the synthetic block-reward transaction.
type Address string

const (
	// Coinbase is the sender address on a block-reward transaction.
	Coinbase Address = "*authorized-reward*"
	// CoinbaseSignature is the sentinel signature on a coinbase transaction.
	CoinbaseSignature = "*reward-signature*"
)

// addressVersion is the single version byte prefixed onto every derived address.
const addressVersion = 0x00

// DeriveAddress computes the Base58Check address for a compressed public
// key: SHA-256, then RIPEMD-160, prefixed with a version byte, suffixed
// with the first four bytes of a double-SHA-256 checksum, Base58-encoded.
func DeriveAddress(pubKey []byte) (Address, error) {
	shaHash := sha256.Sum256(pubKey)

	hasher := ripemd160.New()
	if _, err := hasher.Write(shaHash[:]); err != nil {
		return "", fmt.Errorf("ripemd160 write: %w", err)
	}
	pubKeyHash := hasher.Sum(nil)

	versioned := make([]byte, 0, 1+len(pubKeyHash)+4)
	versioned = append(versioned, addressVersion)
	versioned = append(versioned, pubKeyHash...)

	checksum := DoubleSHA256(versioned)
	full := append(versioned, checksum[:4]...)

	return Address(base58.Encode(full)), nil
}

// DoubleSHA256 computes SHA-256(SHA-256(data)).
func DoubleSHA256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// EncodePublicKeyPEM PEM-encodes a compressed secp256k1 public key so it can
// travel alongside a transaction input for signature verification by peers
// that only ever see the transaction, not the wallet that created it.
func EncodePublicKeyPEM(pubKey []byte) string {
	block := &pem.Block{Type: "SECP256K1 PUBLIC KEY", Bytes: pubKey}
	return string(pem.EncodeToMemory(block))
}

// DecodePublicKeyPEM extracts the raw compressed public key bytes from a PEM block.
func DecodePublicKeyPEM(pemStr string) ([]byte, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("invalid PEM public key")
	}
	return block.Bytes, nil
}

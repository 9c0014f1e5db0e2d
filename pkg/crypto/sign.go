package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Canonical returns the canonical byte serialization used for both signing
// and block hashing: compact JSON with map keys in ascending order and
// struct fields in declaration order.
// encoding/json already sorts string-keyed maps when marshaling, so this is
// a thin wrapper rather than a bespoke encoder — every node must agree on
// this form byte-for-byte, since signatures and hashes are computed over it.
func Canonical(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Sign computes SHA-256 over the canonical serialization of data and signs
// the digest with priv, returning a hex-encoded DER signature.
func Sign(priv *secp256k1.PrivateKey, data interface{}) (string, error) {
	payload, err := Canonical(data)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	digest := sha256.Sum256(payload)
	sig := ecdsa.Sign(priv, digest[:])
	return hex.EncodeToString(sig.Serialize()), nil
}

// Verify checks a hex-encoded DER signature over the canonical
// serialization of data against a PEM-encoded public key. It is a total
// function: any malformed key, signature, or mismatch returns false.
func Verify(pemPublicKey string, data interface{}, signatureHex string) bool {
	pubBytes, err := DecodePublicKeyPEM(pemPublicKey)
	if err != nil {
		return false
	}
	pubKey, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}
	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}
	payload, err := Canonical(data)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(payload)
	return sig.Verify(digest[:], pubKey)
}

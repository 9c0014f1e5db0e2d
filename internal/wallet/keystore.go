package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandichain/node/pkg/crypto"
)

// keyFile is the on-disk JSON format for a single encrypted wallet key.
// Unlike the teacher's multi-account HD keystore, a node here holds one
// mining/transacting identity per key file, matching the spec's
// single-keypair wallet.
type keyFile struct {
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	Address      string    `json:"address"`
	EncryptedKey []byte    `json:"encrypted_key"`
}

// Keystore reads and writes encrypted key files under a directory.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore rooted at path, creating the directory
// if it doesn't already exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

func (ks *Keystore) keyPath(name string) string {
	return filepath.Join(ks.path, name+".key")
}

// Save encrypts kp's private key with password and writes it to name.key.
func (ks *Keystore) Save(name string, kp *crypto.KeyPair, password []byte, params EncryptionParams) error {
	path := ks.keyPath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key %q already exists", name)
	}

	encrypted, err := Encrypt(kp.PrivateKey.Serialize(), password, params)
	if err != nil {
		return fmt.Errorf("encrypt key: %w", err)
	}

	kf := keyFile{
		Version:      1,
		CreatedAt:    time.Now().UTC(),
		Address:      string(kp.Address),
		EncryptedKey: encrypted,
	}

	data, err := json.MarshalIndent(&kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key file: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Load decrypts name.key with password and rebuilds its KeyPair.
func (ks *Keystore) Load(name string, password []byte) (*crypto.KeyPair, error) {
	data, err := os.ReadFile(ks.keyPath(name))
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	if kf.Version != 1 {
		return nil, fmt.Errorf("unsupported key file version: %d", kf.Version)
	}

	raw, err := Decrypt(kf.EncryptedKey, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt key: %w", err)
	}
	return crypto.KeyPairFromBytes(raw)
}

// List returns the names of all key files in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".key" {
			names = append(names, e.Name()[:len(e.Name())-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a key file.
func (ks *Keystore) Delete(name string) error {
	path := ks.keyPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("key %q not found", name)
	}
	return os.Remove(path)
}

// Package storage provides a key-value abstraction over an optional
// on-disk store, and the chain/mempool snapshot codecs built on top of
// it. A node that does not enable persistence runs entirely out of
// MemoryDB; nothing in the consensus or gossip path depends on
// persistence being present, since a restarted node always rehydrates
// via peer sync if its local store is empty or absent.
package storage

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key; the value is not copied
	// and is the store's own buffer.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

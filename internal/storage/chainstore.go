package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	klog "github.com/sandichain/node/internal/log"
	"github.com/sandichain/node/pkg/block"
	"github.com/sandichain/node/pkg/tx"
)

var (
	blockPrefix = []byte("block/")
	poolKey     = []byte("mempool/snapshot")
)

// ChainStore persists a chain's blocks and the mempool's pending
// transactions under a DB. Persistence never substitutes for peer sync:
// a node that boots with an empty or disabled store still reaches full
// height the ordinary way, by dialing its configured peers and adopting
// whatever BLOCKCHAIN_SYNC response is longest.
type ChainStore struct {
	db DB
}

// NewChainStore wraps db. Pass storage.NewMemory() to run without
// persistence, or storage.NewBadger(dir) to persist across restarts.
func NewChainStore(db DB) *ChainStore {
	return &ChainStore{db: db}
}

// SaveChain overwrites the persisted chain with blocks, keyed by
// height so ForEach-based reload preserves order.
func (s *ChainStore) SaveChain(blocks []*block.Block) error {
	for i, b := range blocks {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal block %d: %w", i, err)
		}
		if err := s.db.Put(heightKey(i), data); err != nil {
			return fmt.Errorf("put block %d: %w", i, err)
		}
	}
	klog.Storage.Debug().Int("height", len(blocks)-1).Msg("persisted chain")
	return nil
}

// LoadChain reconstructs the persisted chain in height order. It
// returns a nil slice, not an error, when the store has never held a
// chain; callers fall back to genesis-plus-sync in that case.
func (s *ChainStore) LoadChain() ([]*block.Block, error) {
	byHeight := make(map[int]*block.Block)
	var maxHeight = -1
	err := s.db.ForEach(blockPrefix, func(key, value []byte) error {
		height, err := decodeHeight(key)
		if err != nil {
			return err
		}
		var b block.Block
		if err := json.Unmarshal(value, &b); err != nil {
			return fmt.Errorf("unmarshal block at height %d: %w", height, err)
		}
		byHeight[height] = &b
		if height > maxHeight {
			maxHeight = height
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if maxHeight < 0 {
		return nil, nil
	}

	blocks := make([]*block.Block, maxHeight+1)
	for h, b := range byHeight {
		blocks[h] = b
	}
	for h, b := range blocks {
		if b == nil {
			return nil, fmt.Errorf("persisted chain missing block at height %d", h)
		}
	}
	klog.Storage.Debug().Int("height", maxHeight).Msg("loaded persisted chain")
	return blocks, nil
}

// SaveMempool persists the current set of pending transactions as a
// single JSON blob, matching the wire shape of a TRANSACTION_POOL_SYNC
// envelope's pool field.
func (s *ChainStore) SaveMempool(pool map[string]*tx.Transaction) error {
	data, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("marshal mempool: %w", err)
	}
	return s.db.Put(poolKey, data)
}

// LoadMempool returns the persisted mempool snapshot, or an empty map
// if none was ever saved.
func (s *ChainStore) LoadMempool() (map[string]*tx.Transaction, error) {
	ok, err := s.db.Has(poolKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]*tx.Transaction{}, nil
	}
	data, err := s.db.Get(poolKey)
	if err != nil {
		return nil, err
	}
	pool := make(map[string]*tx.Transaction)
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("unmarshal mempool: %w", err)
	}
	return pool, nil
}

// Close releases the underlying DB.
func (s *ChainStore) Close() error {
	return s.db.Close()
}

func heightKey(height int) []byte {
	key := make([]byte, len(blockPrefix)+8)
	copy(key, blockPrefix)
	binary.BigEndian.PutUint64(key[len(blockPrefix):], uint64(height))
	return key
}

func decodeHeight(key []byte) (int, error) {
	if len(key) != len(blockPrefix)+8 {
		return 0, fmt.Errorf("malformed block key %x", key)
	}
	return int(binary.BigEndian.Uint64(key[len(blockPrefix):])), nil
}

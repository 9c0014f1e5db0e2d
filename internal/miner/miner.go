// Package miner implements block production: snapshotting valid mempool
// transactions, appending a coinbase reward, and sealing the result onto
// the chain via proof-of-work.
package miner

import (
	"context"
	"errors"
	"fmt"

	klog "github.com/sandichain/node/internal/log"
	"github.com/sandichain/node/pkg/block"
	"github.com/sandichain/node/pkg/crypto"
	"github.com/sandichain/node/pkg/tx"
)

// ErrNoValidTransactions is returned when the mempool has nothing minable.
var ErrNoValidTransactions = errors.New("miner: no valid transactions to mine")

// Chain is the subset of internal/chain.Chain the miner needs.
type Chain interface {
	AddBlock(ctx context.Context, data []*tx.Transaction) (*block.Block, error)
	Blocks() []*block.Block
}

// Mempool is the subset of internal/mempool.Pool the miner needs.
type Mempool interface {
	ValidTransactions(miningReward uint64) []*tx.Transaction
	ClearConfirmed(chain []*block.Block)
}

// Broadcaster lets the miner announce a freshly sealed chain without the
// miner depending directly on internal/p2p. A node wired without
// networking simply never sets one.
type Broadcaster interface {
	BroadcastBlockchain(chain []*block.Block)
}

// Miner produces new blocks from pending mempool transactions.
type Miner struct {
	chain       Chain
	pool        Mempool
	minerAddr   crypto.Address
	reward      uint64
	broadcaster Broadcaster
}

// New creates a block producer paying reward to minerAddr on every block
// it seals.
func New(chain Chain, pool Mempool, minerAddr crypto.Address, reward uint64) *Miner {
	return &Miner{
		chain:     chain,
		pool:      pool,
		minerAddr: minerAddr,
		reward:    reward,
	}
}

// SetBroadcaster wires an optional P2P broadcaster. Nil is a valid value
// and simply disables network announcement of newly mined blocks.
func (m *Miner) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// MineTransactions snapshots the valid mempool set, builds a coinbase
// reward transaction, and appends both as a new sealed block. On success
// it broadcasts the new chain (if a broadcaster is wired) and purges the
// mempool of every transaction the block just confirmed.
//
// It does not hold any lock across the PoW loop inside chain.AddBlock: it
// reads the mempool snapshot, releases it implicitly (ValidTransactions
// already returns a copy), and only touches shared state again once
// AddBlock has returned.
func (m *Miner) MineTransactions(ctx context.Context) (*block.Block, error) {
	valid := m.pool.ValidTransactions(m.reward)
	if len(valid) == 0 {
		return nil, ErrNoValidTransactions
	}

	data := make([]*tx.Transaction, 0, len(valid)+1)
	data = append(data, valid...)
	data = append(data, tx.Coinbase(m.minerAddr, m.reward))

	sealed, err := m.chain.AddBlock(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("add block: %w", err)
	}

	chainSnapshot := m.chain.Blocks()
	if m.broadcaster != nil {
		m.broadcaster.BroadcastBlockchain(chainSnapshot)
	}
	m.pool.ClearConfirmed(chainSnapshot)

	klog.Miner.Info().Str("hash", sealed.Hash).Int("num_tx", len(data)).Msg("mined block")
	return sealed, nil
}

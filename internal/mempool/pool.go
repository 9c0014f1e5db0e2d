// Package mempool manages pending transactions waiting for block inclusion.
package mempool

import (
	"sync"

	"github.com/sandichain/node/pkg/block"
	"github.com/sandichain/node/pkg/crypto"
	"github.com/sandichain/node/pkg/tx"
)

// Pool holds unconfirmed transactions keyed by id. At most one transaction
// per sender address is expected to live here at a time, but that
// invariant is the caller's to maintain (see ExistingForSender) — Set
// itself never rejects a second entry for the same sender.
type Pool struct {
	mu  sync.RWMutex
	txs map[string]*tx.Transaction
}

// New creates an empty mempool.
func New() *Pool {
	return &Pool{
		txs: make(map[string]*tx.Transaction),
	}
}

// Set upserts a transaction by id. A transaction already pooled under an
// older id (tx.Update re-issues the id in place) is moved to its new id
// rather than left behind as a second entry.
func (p *Pool) Set(t *tx.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, existing := range p.txs {
		if existing == t && id != t.ID {
			delete(p.txs, id)
		}
	}
	p.txs[t.ID] = t
}

// ExistingForSender returns the single pending transaction whose input
// address matches addr, or nil if none exists. It does not enforce that
// at most one such transaction exists; it merely reports the first one
// found, which is sufficient for callers deciding create vs. update.
func (p *Pool) ExistingForSender(addr crypto.Address) *tx.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, t := range p.txs {
		if t.Input.Address == addr {
			return t
		}
	}
	return nil
}

// ValidTransactions returns the subset of pending transactions that pass
// tx.Validate, additionally rejecting any coinbase entry whose reward
// does not match miningReward — a gossiped transaction can claim
// input.address = COINBASE with a fabricated output map, and
// tx.Validate alone does not catch that since CoinbaseSignature is a
// public sentinel, not a real signature.
func (p *Pool) ValidTransactions(miningReward uint64) []*tx.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*tx.Transaction, 0, len(p.txs))
	for _, t := range p.txs {
		if !tx.Validate(t) {
			continue
		}
		if t.IsCoinbase() && !tx.ValidateCoinbaseReward(t, miningReward) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ClearConfirmed removes every mempool entry whose id appears in any
// block of chain[1:] (block 0 is genesis and carries no transactions).
func (p *Pool) ClearConfirmed(chain []*block.Block) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range chain[1:] {
		for _, t := range b.Data {
			delete(p.txs, t.ID)
		}
	}
}

// Replace wholesale-replaces the pool contents, used when adopting a
// peer's mempool snapshot during sync.
func (p *Pool) Replace(txs map[string]*tx.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = txs
}

// Snapshot returns a shallow copy of the current id -> transaction map,
// suitable for sending to a peer as part of sync.
func (p *Pool) Snapshot() map[string]*tx.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]*tx.Transaction, len(p.txs))
	for id, t := range p.txs {
		out[id] = t
	}
	return out
}

// Has reports whether a transaction with the given id is already pending.
func (p *Pool) Has(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.txs[id]
	return ok
}

// Count returns the number of transactions currently pending.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txs)
}

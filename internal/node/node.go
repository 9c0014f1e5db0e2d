// Package node wires the chain, mempool, miner, P2P gossip service, and
// optional persistence layer into a single running process. It is the
// only package that imports all of internal/chain, internal/mempool,
// internal/miner, internal/p2p, internal/storage, and internal/wallet
// at once.
package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandichain/node/config"
	"github.com/sandichain/node/internal/chain"
	klog "github.com/sandichain/node/internal/log"
	"github.com/sandichain/node/internal/mempool"
	"github.com/sandichain/node/internal/miner"
	"github.com/sandichain/node/internal/p2p"
	"github.com/sandichain/node/internal/storage"
	"github.com/sandichain/node/internal/wallet"
	"github.com/sandichain/node/pkg/crypto"
	"github.com/sandichain/node/pkg/tx"
)

// Node is a fully wired, runnable instance of the system: chain,
// mempool, wallet, miner, P2P gossip, and storage, all parameterized by
// the config layer.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	chain   *chain.Chain
	pool    *mempool.Pool
	wallet  *wallet.Wallet
	miner   *miner.Miner
	p2pNode *p2p.Node
	store   *storage.ChainStore

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds every component from cfg but starts nothing: no listener,
// no dialers, no mining loop. Call Start for that.
func New(cfg *config.Config) (*Node, error) {
	klog.Init(cfg.Log.Level, cfg.Log.JSON)
	logger := klog.Node

	var db storage.DB
	if cfg.Storage.Enabled {
		bdb, err := storage.NewBadger(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open persistent store at %s: %w", cfg.Storage.DataDir, err)
		}
		db = bdb
	} else {
		db = storage.NewMemory()
	}
	store := storage.NewChainStore(db)

	ch := chain.New(cfg.Ledger.InitialDifficulty, cfg.Ledger.MineRateMs)
	persisted, err := store.LoadChain()
	if err != nil {
		return nil, fmt.Errorf("load persisted chain: %w", err)
	}
	if persisted != nil && chain.IsValidChain(persisted, cfg.Ledger.InitialDifficulty) {
		ch.ReplaceChain(persisted)
		logger.Info().Int("height", len(persisted)-1).Msg("resumed chain from persistent store")
	}

	pool := mempool.New()
	persistedPool, err := store.LoadMempool()
	if err != nil {
		return nil, fmt.Errorf("load persisted mempool: %w", err)
	}
	pool.Replace(persistedPool)

	w, err := wallet.New(cfg.Ledger.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("generate wallet key pair: %w", err)
	}
	w.RefreshBalance(ch.Blocks())

	m := miner.New(ch, pool, w.Address(), cfg.Mining.Reward)

	var p2pNode *p2p.Node
	if cfg.P2P.Enabled {
		p2pNode = p2p.New(ch, pool)
		m.SetBroadcaster(p2pNode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Node{
		cfg:     cfg,
		logger:  logger,
		chain:   ch,
		pool:    pool,
		wallet:  w,
		miner:   m,
		p2pNode: p2pNode,
		store:   store,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start binds the P2P listener (if enabled), dials configured peers,
// and begins the periodic persistence loop (if enabled). It does not
// run a standing mining loop; callers drive MineOnce explicitly, the
// way the spec's miner is invoked on demand rather than on a timer.
func (n *Node) Start() error {
	if n.p2pNode != nil {
		addr := fmt.Sprintf(":%d", n.cfg.P2P.Port)
		bound, err := n.p2pNode.Start(addr, n.cfg.P2P.Peers)
		if err != nil {
			return fmt.Errorf("start p2p service: %w", err)
		}
		n.logger.Info().Str("addr", bound).Int("peers", len(n.cfg.P2P.Peers)).Msg("p2p service listening")
	}

	if n.cfg.Storage.Enabled {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.runPersistLoop(10 * time.Second)
		}()
	}

	n.logger.Info().
		Str("miner_address", string(n.wallet.Address())).
		Uint64("balance", n.wallet.Balance()).
		Msg("node started")
	return nil
}

// Stop cancels the persistence loop, stops the P2P service, flushes a
// final snapshot if persistence is enabled, and closes the store.
func (n *Node) Stop() {
	n.cancel()
	n.wg.Wait()

	if n.p2pNode != nil {
		n.p2pNode.Stop()
	}
	if n.cfg.Storage.Enabled {
		n.persistSnapshot()
	}
	if err := n.store.Close(); err != nil {
		n.logger.Warn().Err(err).Msg("error closing storage")
	}
	n.logger.Info().Msg("node stopped")
}

// MineOnce runs one round of block production: snapshot the mempool,
// seal a block with a coinbase reward to this node's wallet, broadcast
// it, and clear the confirmed transactions. It returns
// miner.ErrNoValidTransactions when the mempool has nothing worth mining.
func (n *Node) MineOnce(ctx context.Context) error {
	if _, err := n.miner.MineTransactions(ctx); err != nil {
		return err
	}
	n.wallet.RefreshBalance(n.chain.Blocks())
	return nil
}

// Transfer builds and signs a transfer from this node's wallet, adds it
// to the local mempool, and broadcasts it to peers. A sender with an
// already-pending transaction has that entry updated in place (a second
// transfer to a different recipient does not create a second mempool
// entry), matching the single-sender-replacement mempool semantics.
func (n *Node) Transfer(recipient string, amount uint64) error {
	addr := crypto.Address(recipient)

	if existing := n.pool.ExistingForSender(n.wallet.Address()); existing != nil {
		if err := tx.Update(existing, n.wallet, addr, amount); err != nil {
			return fmt.Errorf("update pending transfer: %w", err)
		}
		n.pool.Set(existing)
		if n.p2pNode != nil {
			n.p2pNode.BroadcastTransaction(existing)
		}
		return nil
	}

	t, err := n.wallet.NewTransfer(addr, amount)
	if err != nil {
		return fmt.Errorf("build transfer: %w", err)
	}
	n.pool.Set(t)
	if n.p2pNode != nil {
		n.p2pNode.BroadcastTransaction(t)
	}
	return nil
}

// Chain exposes the underlying chain for read-only inspection (height,
// blocks) by an embedding binary.
func (n *Node) Chain() *chain.Chain { return n.chain }

// Wallet exposes this node's local wallet.
func (n *Node) Wallet() *wallet.Wallet { return n.wallet }

// NetworkStats reports gossip-visible state, or a P2P-disabled fallback
// (local chain height and mempool size only) if gossip is off.
func (n *Node) NetworkStats() p2p.NetworkStats {
	if n.p2pNode == nil {
		return p2p.NetworkStats{ChainHeight: n.chain.Len() - 1, MempoolSize: n.pool.Count()}
	}
	return n.p2pNode.NetworkStats()
}

func (n *Node) runPersistLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
			n.persistSnapshot()
		}
	}
}

func (n *Node) persistSnapshot() {
	if err := n.store.SaveChain(n.chain.Blocks()); err != nil {
		n.logger.Warn().Err(err).Msg("failed to persist chain")
	}
	if err := n.store.SaveMempool(n.pool.Snapshot()); err != nil {
		n.logger.Warn().Err(err).Msg("failed to persist mempool")
	}
}

// Sandichain node daemon.
//
// Usage:
//
//	sandinode            Run a node, configured entirely via environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandichain/node/config"
	klog "github.com/sandichain/node/internal/log"
	"github.com/sandichain/node/internal/miner"
	"github.com/sandichain/node/internal/node"
)

func main() {
	// ── 1. Load configuration from the environment ──────────────────
	cfg := config.Load()

	// ── 2. Build the node (chain, mempool, wallet, miner, P2P) ───────
	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := klog.Node

	// ── 3. Start networking and the persistence loop ─────────────────
	if err := n.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start node")
	}

	// ── 4. Run the background miner: every MINE_RATE, seal whatever ──
	//       is sitting in the mempool. A node with an empty mempool
	//       simply skips the round and waits for the next tick.
	ctx, cancel := context.WithCancel(context.Background())
	mineRate := time.Duration(cfg.Ledger.MineRateMs) * time.Millisecond
	go runMinerLoop(ctx, n, mineRate, logger)

	logger.Info().
		Int("port", cfg.P2P.Port).
		Bool("network", cfg.P2P.Enabled).
		Bool("persistence", cfg.Storage.Enabled).
		Msg("sandinode running")

	// ── 5. Wait for shutdown ──────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	cancel()
	n.Stop()
	logger.Info().Msg("goodbye")
}

// runMinerLoop ticks at interval and attempts one round of block
// production each time, skipping the round without logging (and without
// failing) when the mempool is empty since an idle mempool is the
// ordinary steady state.
func runMinerLoop(ctx context.Context, n *node.Node, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := n.MineOnce(ctx); err != nil {
				if !errors.Is(err, miner.ErrNoValidTransactions) {
					logger.Warn().Err(err).Msg("mining round failed")
				}
				continue
			}
			logger.Info().Int("height", n.Chain().Len()-1).Msg("mined block")
		}
	}
}

package p2p

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru/v2"

	klog "github.com/sandichain/node/internal/log"
	"github.com/sandichain/node/pkg/block"
	"github.com/sandichain/node/pkg/tx"
)

// recentCacheSize bounds the dedup cache of recently processed message
// digests. This only avoids redundant chain/mempool work on duplicate
// broadcasts; it never changes whether a message would be accepted.
const recentCacheSize = 2048

// Chain is the subset of internal/chain.Chain the gossip service needs.
type Chain interface {
	Blocks() []*block.Block
	ReplaceChain(candidate []*block.Block) bool
}

// Mempool is the subset of internal/mempool.Pool the gossip service needs.
type Mempool interface {
	Set(t *tx.Transaction)
	Has(id string) bool
	Snapshot() map[string]*tx.Transaction
	Replace(txs map[string]*tx.Transaction)
	ClearConfirmed(chain []*block.Block)
	Count() int
}

// Node runs the duplex WebSocket gossip service: one accept loop for the
// listener, one reader goroutine per active peer, and one reconnect
// timer per configured bootstrap URL.
type Node struct {
	id    string
	chain Chain
	pool  Mempool

	upgrader websocket.Upgrader
	dialer   websocket.Dialer

	mu    sync.RWMutex
	peers map[*peerConn]struct{}

	dialMu    sync.RWMutex
	dialState map[string]ConnState

	recent *lru.Cache[string, struct{}]

	metrics *metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a gossip node. It does not yet listen or dial; call Start.
func New(chain Chain, pool Mempool) *Node {
	recent, _ := lru.New[string, struct{}](recentCacheSize)
	ctx, cancel := context.WithCancel(context.Background())
	return &Node{
		id:        uuid.NewString(),
		chain:     chain,
		pool:      pool,
		peers:     make(map[*peerConn]struct{}),
		dialState: make(map[string]ConnState),
		recent:    recent,
		metrics:   newMetrics(),
		ctx:       ctx,
		cancel:    cancel,
		dialer: websocket.Dialer{
			HandshakeTimeout: DialTimeout,
		},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ID returns this node's randomly assigned gossip identity.
func (n *Node) ID() string { return n.id }

// Start binds addr (":5001"-style; use ":0" to let the OS pick a port in
// tests) and dials every URL in peerURLs. Both run until Stop is called.
// It returns the bound listener's address so callers that used ":0" can
// discover the actual port.
func (n *Node) Start(addr string, peerURLs []string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", n.handleUpgrade)
	server := &http.Server{Handler: mux}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			klog.P2P.Error().Err(err).Msg("p2p listener stopped")
		}
	}()

	go func() {
		<-n.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	for _, url := range peerURLs {
		n.wg.Add(1)
		go n.dialLoop(url)
	}

	boundAddr := ln.Addr().String()
	klog.P2P.Info().Str("addr", boundAddr).Int("bootstrap_peers", len(peerURLs)).Str("node_id", n.id).Msg("p2p service started")
	return boundAddr, nil
}

// Stop cancels every reader, dialer, and the listener, closes every open
// peer socket to unblock any pending reads, and waits for them to exit.
func (n *Node) Stop() {
	n.cancel()
	n.mu.RLock()
	peers := make([]*peerConn, 0, len(n.peers))
	for p := range n.peers {
		peers = append(peers, p)
	}
	n.mu.RUnlock()
	for _, p := range peers {
		p.close()
	}
	n.wg.Wait()
}

func (n *Node) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		klog.P2P.Warn().Err(err).Msg("upgrade failed")
		return
	}
	peer := newPeerConn(conn, "")
	n.addPeer(peer)
	n.wg.Add(1)
	go n.readLoop(peer)

	// Incoming connections get pushed the current chain and mempool
	// immediately, no handshake beyond the transport's own.
	n.pushSync(peer)
}

// setDialState records url's current position in the connection state
// machine (Idle/Dialing/Connected/Backoff/GaveUp), driven by dialLoop.
func (n *Node) setDialState(url string, s ConnState) {
	n.dialMu.Lock()
	defer n.dialMu.Unlock()
	n.dialState[url] = s
}

// DialStates reports every configured outbound peer's current connection
// state, for diagnostics.
func (n *Node) DialStates() map[string]ConnState {
	n.dialMu.RLock()
	defer n.dialMu.RUnlock()
	out := make(map[string]ConnState, len(n.dialState))
	for url, s := range n.dialState {
		out[url] = s
	}
	return out
}

func (n *Node) addPeer(p *peerConn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.peers[p] = struct{}{}
}

func (n *Node) removePeer(p *peerConn) {
	n.mu.Lock()
	delete(n.peers, p)
	count := len(n.peers)
	n.mu.Unlock()
	n.metrics.peers.Set(float64(count))
	p.close()
}

func (n *Node) readLoop(p *peerConn) {
	defer n.wg.Done()
	defer n.removePeer(p)

	n.mu.RLock()
	count := len(n.peers)
	n.mu.RUnlock()
	n.metrics.peers.Set(float64(count))

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case <-n.ctx.Done():
			return
		default:
		}
		n.handleMessage(p, data)
	}
}

func (n *Node) handleMessage(from *peerConn, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		klog.P2P.Warn().Err(err).Msg("malformed message, ignoring")
		return
	}
	if env.NodeID == n.id {
		return // self-echo
	}

	digest := messageDigest(data)
	if _, seen := n.recent.Get(digest); seen {
		return
	}
	n.recent.Add(digest, struct{}{})

	switch env.Type {
	case MsgSyncRequest:
		n.pushSync(from)
	case MsgBlockchainSync, MsgNewBlock:
		n.handleChainSync(env.Chain, env.Type == MsgNewBlock)
	case MsgNewTransaction:
		n.handleNewTransaction(env.Tx)
	case MsgTransactionPoolSync:
		n.handlePoolSync(env.Pool)
	case MsgPing:
		_ = from.writeJSON(n.envelope(MsgPong))
	case MsgPong:
		// informational only.
	default:
		klog.P2P.Warn().Str("type", string(env.Type)).Msg("unknown message type, ignoring")
	}
}

func (n *Node) handleChainSync(candidate []*block.Block, freshlyMined bool) {
	if len(candidate) == 0 {
		return
	}
	if n.chain.ReplaceChain(candidate) {
		n.pool.ClearConfirmed(candidate)
		n.metrics.height.Set(float64(len(candidate) - 1))
		if freshlyMined {
			n.metrics.blocksMined.Inc()
			klog.P2P.Info().Int("height", len(candidate)-1).Msg("adopted freshly mined block")
		} else {
			klog.P2P.Info().Int("height", len(candidate)-1).Msg("adopted longer chain via sync")
		}
	}
}

func (n *Node) handleNewTransaction(t *tx.Transaction) {
	if t == nil || !tx.Validate(t) {
		return
	}
	if n.pool.Has(t.ID) {
		return
	}
	n.pool.Set(t)
	n.metrics.mempoolSize.Set(float64(n.pool.Count()))
}

func (n *Node) handlePoolSync(pool map[string]*tx.Transaction) {
	for _, t := range pool {
		n.handleNewTransaction(t)
	}
}

func (n *Node) pushSync(p *peerConn) {
	chainEnv := n.envelope(MsgBlockchainSync)
	chainEnv.Chain = n.chain.Blocks()
	if err := p.writeJSON(chainEnv); err != nil {
		return
	}

	poolEnv := n.envelope(MsgTransactionPoolSync)
	poolEnv.Pool = n.pool.Snapshot()
	_ = p.writeJSON(poolEnv)
}

func (n *Node) envelope(t MessageType) *Envelope {
	return &Envelope{Type: t, NodeID: n.id, Timestamp: time.Now().UnixMilli()}
}

// BroadcastBlockchain announces a newly sealed chain to every open peer,
// satisfying internal/miner.Broadcaster.
func (n *Node) BroadcastBlockchain(chain []*block.Block) {
	env := n.envelope(MsgNewBlock)
	env.Chain = chain
	n.broadcast(env)
	n.metrics.height.Set(float64(len(chain) - 1))
	n.metrics.blocksMined.Inc()
}

// BroadcastTransaction announces a newly authored or updated transaction
// to every open peer.
func (n *Node) BroadcastTransaction(t *tx.Transaction) {
	env := n.envelope(MsgNewTransaction)
	env.Tx = t
	n.broadcast(env)
}

func (n *Node) broadcast(env *Envelope) {
	n.mu.RLock()
	peers := make([]*peerConn, 0, len(n.peers))
	for p := range n.peers {
		peers = append(peers, p)
	}
	n.mu.RUnlock()

	for _, p := range peers {
		if err := p.writeJSON(env); err != nil {
			n.removePeer(p)
		}
	}
}

// NetworkStats summarizes the node's current gossip-visible state, the
// spec's networkStats() contract point.
type NetworkStats struct {
	PeerCount   int `json:"peerCount"`
	MempoolSize int `json:"mempoolSize"`
	ChainHeight int `json:"chainHeight"`
}

// NetworkStats reports the current peer count, mempool size, and chain
// height.
func (n *Node) NetworkStats() NetworkStats {
	n.mu.RLock()
	peerCount := len(n.peers)
	n.mu.RUnlock()
	return NetworkStats{
		PeerCount:   peerCount,
		MempoolSize: n.pool.Count(),
		ChainHeight: len(n.chain.Blocks()) - 1,
	}
}

func messageDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

package p2p

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sandichain/node/internal/chain"
	"github.com/sandichain/node/internal/mempool"
	"github.com/sandichain/node/pkg/tx"
)

func wsURL(addr string) string {
	return fmt.Sprintf("ws://%s/", strings.Replace(addr, "[::]", "127.0.0.1", 1))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !cond() {
		t.Fatalf("condition not met within %s", timeout)
	}
}

func TestTwoNodes_ConvergeOnLongerChainViaSync(t *testing.T) {
	chainA := chain.New(1, 1000)
	nodeA := New(chainA, mempool.New())
	if _, err := nodeA.Start("127.0.0.1:0", nil); err != nil {
		t.Fatalf("Start nodeA: %v", err)
	}
	t.Cleanup(nodeA.Stop)

	chainB := chain.New(1, 1000)
	if _, err := chainB.AddBlock(context.Background(), []*tx.Transaction{}); err != nil {
		t.Fatalf("AddBlock on B: %v", err)
	}
	nodeB := New(chainB, mempool.New())
	addrB, err := nodeB.Start("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("Start nodeB: %v", err)
	}
	t.Cleanup(nodeB.Stop)

	// A dials B; on connect A sends SYNC_REQUEST, B replies with its
	// longer chain, and A should adopt it via replaceChain.
	nodeA.wg.Add(1)
	go nodeA.dialLoop(wsURL(addrB))

	waitFor(t, 2*time.Second, func() bool {
		return chainA.Len() == chainB.Len()
	})
}

func TestDialLoop_ReportsConnectedState(t *testing.T) {
	chainA := chain.New(1, 1000)
	nodeA := New(chainA, mempool.New())
	if _, err := nodeA.Start("127.0.0.1:0", nil); err != nil {
		t.Fatalf("Start nodeA: %v", err)
	}
	t.Cleanup(nodeA.Stop)

	chainB := chain.New(1, 1000)
	nodeB := New(chainB, mempool.New())
	addrB, err := nodeB.Start("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("Start nodeB: %v", err)
	}
	t.Cleanup(nodeB.Stop)

	urlB := wsURL(addrB)
	nodeA.wg.Add(1)
	go nodeA.dialLoop(urlB)

	waitFor(t, 2*time.Second, func() bool {
		return nodeA.DialStates()[urlB] == StateConnected
	})
}

func TestDialStates_ReportsRecordedState(t *testing.T) {
	n := New(chain.New(1, 1000), mempool.New())
	if states := n.DialStates(); len(states) != 0 {
		t.Fatalf("DialStates() = %v, want empty before any dial attempt", states)
	}

	n.setDialState("ws://example.invalid/", StateBackoff)
	if got := n.DialStates()["ws://example.invalid/"]; got != StateBackoff {
		t.Fatalf("DialStates()[url] = %v, want %v", got, StateBackoff)
	}

	n.setDialState("ws://example.invalid/", StateGaveUp)
	if got := n.DialStates()["ws://example.invalid/"]; got != StateGaveUp {
		t.Fatalf("DialStates()[url] = %v, want %v", got, StateGaveUp)
	}
}

func TestHandleMessage_DropsSelfEcho(t *testing.T) {
	c := chain.New(1, 1000)
	pool := mempool.New()
	n := New(c, pool)

	env := n.envelope(MsgSyncRequest)
	data, err := env.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	// handleMessage should see NodeID == n.id and return without doing
	// anything observable; the absence of a panic/peer interaction is
	// the assertion here since from is nil and SYNC_REQUEST would
	// otherwise attempt to write to it.
	n.handleMessage(nil, data)
}

func TestHandleMessage_IgnoresMalformedJSON(t *testing.T) {
	c := chain.New(1, 1000)
	pool := mempool.New()
	n := New(c, pool)

	n.handleMessage(nil, []byte("not json"))
}

func TestHandleNewTransaction_RejectsInvalid(t *testing.T) {
	c := chain.New(1, 1000)
	pool := mempool.New()
	n := New(c, pool)

	t1 := &tx.Transaction{ID: "bad", Input: tx.Input{}, OutputMap: tx.OutputMap{"x": 5}}
	n.handleNewTransaction(t1)
	if pool.Count() != 0 {
		t.Fatalf("expected invalid (unsigned, tampered-sum) transaction to be rejected")
	}
}

func TestNetworkStats_ReportsHeightAndMempoolSize(t *testing.T) {
	c := chain.New(1, 1000)
	pool := mempool.New()
	n := New(c, pool)

	stats := n.NetworkStats()
	if stats.ChainHeight != 0 {
		t.Fatalf("expected genesis-only chain to report height 0, got %d", stats.ChainHeight)
	}
	if stats.PeerCount != 0 {
		t.Fatalf("expected no peers, got %d", stats.PeerCount)
	}
}

package p2p

import (
	"time"

	klog "github.com/sandichain/node/internal/log"
)

// dialLoop owns one bootstrap peer URL for the node's lifetime: it
// alternates between dialing and waiting out a backoff timer, and gives
// up silently after MaxAttempts consecutive failures until the process
// observes a fresh inbound connection from that peer instead.
func (n *Node) dialLoop(url string) {
	defer n.wg.Done()

	attempts := 0
	for {
		select {
		case <-n.ctx.Done():
			return
		default:
		}

		n.setDialState(url, StateDialing)
		conn, _, err := n.dialer.Dial(url, nil)
		if err != nil {
			attempts++
			if attempts >= MaxAttempts {
				n.setDialState(url, StateGaveUp)
				klog.P2P.Warn().Str("peer", url).Int("attempts", attempts).Msg("giving up on peer")
				return
			}
			delay := backoffDelay(attempts)
			n.setDialState(url, StateBackoff)
			klog.P2P.Debug().Str("peer", url).Err(err).Dur("retry_in", delay).Msg("dial failed")
			select {
			case <-time.After(delay):
				continue
			case <-n.ctx.Done():
				return
			}
		}

		attempts = 0
		n.setDialState(url, StateConnected)
		peer := newPeerConn(conn, url)
		n.addPeer(peer)
		klog.P2P.Info().Str("peer", url).Msg("connected")

		// A dialer additionally sends SYNC_REQUEST so the accepting peer
		// replies with its own state even if this node is already caught up.
		_ = peer.writeJSON(n.envelope(MsgSyncRequest))
		n.pushSync(peer)

		n.wg.Add(1)
		n.readLoop(peer) // blocks until the connection closes
	}
}

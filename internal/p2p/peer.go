package p2p

import (
	"sync"

	"github.com/gorilla/websocket"
)

// peerConn wraps one active socket, inbound or outbound. Writes are
// synchronized by writeMu (gorilla/websocket connections are not safe
// for concurrent writers); the peers-set lock on Node never guards
// per-socket I/O.
type peerConn struct {
	conn    *websocket.Conn
	url     string // dial URL for outbound peers; empty for accepted-in sockets.
	writeMu sync.Mutex
}

func newPeerConn(conn *websocket.Conn, url string) *peerConn {
	return &peerConn{conn: conn, url: url}
}

func (p *peerConn) writeJSON(v any) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteJSON(v)
}

func (p *peerConn) close() {
	_ = p.conn.Close()
}

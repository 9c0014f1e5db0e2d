// Package p2p implements the node's gossip service: a duplex WebSocket
// endpoint that dials a static bootstrap list, reconciles chain and
// mempool state with every peer it talks to, and broadcasts newly mined
// blocks and newly authored transactions.
package p2p

import (
	"encoding/json"

	"github.com/sandichain/node/pkg/block"
	"github.com/sandichain/node/pkg/tx"
)

// MessageType identifies the kind of payload an Envelope carries.
type MessageType string

// Recognized message types. Unknown types are logged and ignored;
// malformed JSON is logged and the socket left open.
const (
	MsgSyncRequest         MessageType = "SYNC_REQUEST"
	MsgBlockchainSync      MessageType = "BLOCKCHAIN_SYNC"
	MsgNewBlock            MessageType = "NEW_BLOCK"
	MsgNewTransaction      MessageType = "NEW_TRANSACTION"
	MsgTransactionPoolSync MessageType = "TRANSACTION_POOL_SYNC"
	MsgPing                MessageType = "PING"
	MsgPong                MessageType = "PONG"
)

// Envelope is the wire format for every message exchanged between peers:
// a JSON object carrying at least {type, nodeId, timestamp}. Messages
// whose NodeID equals the receiving node's own id are discarded as
// self-echoes.
type Envelope struct {
	Type      MessageType                `json:"type"`
	NodeID    string                     `json:"nodeId"`
	Timestamp int64                      `json:"timestamp"`
	Chain     []*block.Block             `json:"chain,omitempty"`
	Tx        *tx.Transaction            `json:"tx,omitempty"`
	Pool      map[string]*tx.Transaction `json:"pool,omitempty"`
}

// Marshal serializes e to its wire form.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

package session

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn wraps a single WebSocket connection with a per-connection write
// mutex: the socket handle is shared between the Writer, the Join
// orchestrator's initial snapshot, and connection teardown, so only one
// task may write a frame at a time. The write mutex is never nested with
// a Registry lock.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

// NewConn wraps an already-upgraded WebSocket connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteBinary writes one already-encoded wire frame.
func (c *Conn) WriteBinary(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteMessage(websocket.BinaryMessage, data)
}

// Close closes the underlying socket. Safe to call more than once.
func (c *Conn) Close() error {
	return c.ws.Close()
}

// ReadBinary blocks for the next inbound message. A non-binary message
// (text, ping/pong handled by gorilla internally) is skipped by the
// caller's loop; a close frame or I/O error is reported as an error.
func (c *Conn) ReadBinary() ([]byte, int, error) {
	kind, data, err := c.ws.ReadMessage()
	return data, kind, err
}

// SetReadDeadline bounds how long the next ReadBinary may block, used to
// drop players that have gone idle.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

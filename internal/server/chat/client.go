package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds how long a single write may stall before the
	// connection is treated as dead.
	writeWait = 10 * time.Second
	// pingPeriod must stay under the transport's read deadline window so
	// a healthy peer's pongs keep resetting it in time.
	pingPeriod = 54 * time.Second
)

// Conn is the transport surface the chat core needs from one live
// connection. *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client is the registry's handle to one live connection. All writes go
// through a mutex, so frames sent to a single client never interleave and
// arrive in the order the sends were issued. Every write carries a
// deadline: a peer that stops draining its socket turns into a write
// error instead of a stuck goroutine.
type Client struct {
	conn      Conn
	mu        sync.Mutex
	closed    bool
	writeWait time.Duration
}

func NewClient(conn Conn) *Client {
	return &Client{conn: conn, writeWait: writeWait}
}

// Send serializes the frame and writes it as one text message.
func (c *Client) Send(frame Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return c.SendRaw(payload)
}

// SendRaw writes an already-serialized frame.
func (c *Client) SendRaw(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Ping sends a ping control frame, serialized with the data writes.
func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Read blocks for the next inbound text frame.
func (c *Client) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

// CloseWithCode attempts a close handshake with the given status code and
// then tears the connection down. Safe to call multiple times and on an
// already-dead connection.
func (c *Client) CloseWithCode(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	// Best effort: the peer may already be gone.
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	_ = c.conn.Close()
}

// Close tears the connection down without a close handshake.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	_ = c.conn.Close()
}

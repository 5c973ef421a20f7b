package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/roomchat/internal/logging"
	"github.com/gorilla/websocket"
)

var errConnClosed = errors.New("connection closed")

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// fakeConn is an in-memory Conn for driving sessions without a network.
// The test plays the peer: push inbound frames with send, hang up with
// closePeer, and inspect everything the server wrote.
type fakeConn struct {
	mu            sync.Mutex
	inbound       chan []byte
	closeOnce     sync.Once
	failWrite     bool
	stallWrite    bool
	writeDeadline time.Time
	writes        []writtenMsg
}

type writtenMsg struct {
	messageType int
	data        []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16)}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-c.inbound
	if !ok {
		return 0, nil, errConnClosed
	}
	return websocket.TextMessage, data, nil
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()

	if c.stallWrite {
		// A peer that stopped draining its socket: the write hangs until
		// the deadline set via SetWriteDeadline expires.
		deadline := c.writeDeadline
		c.mu.Unlock()
		if deadline.IsZero() {
			deadline = time.Now().Add(time.Second)
		}
		time.Sleep(time.Until(deadline))
		return errors.New("i/o timeout")
	}
	defer c.mu.Unlock()

	if c.failWrite {
		return errors.New("broken pipe")
	}
	c.writes = append(c.writes, writtenMsg{messageType: messageType, data: append([]byte(nil), data...)})
	return nil
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeDeadline = t
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.inbound) })
	return nil
}

// send plays an inbound frame from the peer.
func (c *fakeConn) send(data string) {
	c.inbound <- []byte(data)
}

// closePeer simulates an abrupt peer disconnect.
func (c *fakeConn) closePeer() {
	c.closeOnce.Do(func() { close(c.inbound) })
}

// breakWrites makes every subsequent write fail, as a dead connection would.
func (c *fakeConn) breakWrites() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWrite = true
}

// stallWrites makes every subsequent write hang until its deadline.
func (c *fakeConn) stallWrites() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stallWrite = true
}

// lastWriteDeadline returns the most recent deadline armed on the
// connection.
func (c *fakeConn) lastWriteDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeDeadline
}

// textFrames decodes every text message written so far.
func (c *fakeConn) textFrames(t *testing.T) []Frame {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	var frames []Frame
	for _, w := range c.writes {
		if w.messageType != websocket.TextMessage {
			continue
		}
		var f Frame
		if err := json.Unmarshal(w.data, &f); err != nil {
			t.Fatalf("malformed frame %q: %v", w.data, err)
		}
		frames = append(frames, f)
	}
	return frames
}

// closeCode returns the status code of the close message written to the
// peer, or -1 if none was sent.
func (c *fakeConn) closeCode() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, w := range c.writes {
		if w.messageType == websocket.CloseMessage && len(w.data) >= 2 {
			return int(w.data[0])<<8 | int(w.data[1])
		}
	}
	return -1
}

// waitFrames polls until the connection has received at least n text
// frames or the timeout expires.
func (c *fakeConn) waitFrames(t *testing.T, n int) []Frame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		frames := c.textFrames(t)
		if len(frames) >= n {
			return frames
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d frames, got %d", n, len(c.textFrames(t)))
	return nil
}

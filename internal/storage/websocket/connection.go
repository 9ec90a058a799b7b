package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/voxelrealm/simcore/pkg/streaming"
)

const (
	sendChSize   = 10_000
	ackChSize    = 16
	maxReconnect = 10
	maxBackoff   = 30 * time.Second
	writeWait    = 10 * time.Second
	ackTimeout   = 10 * time.Second
)

type outgoing struct {
	msgType string
	data    []byte
}

// connection owns one WebSocket at a time. Each socket gets its own read and
// write loop; stop is closed when that socket is torn down so a stale write
// loop never touches its replacement.
type connection struct {
	mu     sync.Mutex
	conn   *ws.Conn
	stop   chan struct{}
	sendCh chan outgoing
	ackCh  chan streaming.AckMessage
	done   chan struct{} // closed on shutdown
	closed bool

	wsURL       string
	secret      string
	baseBackoff time.Duration

	// resume builds the message replayed after a reconnect; it returns nil
	// when no session is open.
	resume func() []byte

	sent       atomic.Uint64
	reconnects atomic.Uint64
	dropped    map[string]uint64 // by message type, guarded by mu
	logger     *slog.Logger
}

func newConnection(logger *slog.Logger) *connection {
	return &connection{
		sendCh:      make(chan outgoing, sendChSize),
		ackCh:       make(chan streaming.AckMessage, ackChSize),
		done:        make(chan struct{}),
		baseBackoff: time.Second,
		dropped:     make(map[string]uint64),
		logger:      logger,
	}
}

// dial connects to the WebSocket server and starts read/write loops.
func (c *connection) dial(rawURL, secret string) error {
	c.wsURL = rawURL
	c.secret = secret

	conn, err := c.dialOnce()
	if err != nil {
		return err
	}
	c.attach(conn)
	return nil
}

// dialOnce performs a single WebSocket dial with the secret query param.
func (c *connection) dialOnce() (*ws.Conn, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("secret", c.secret)
	u.RawQuery = q.Encode()

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// attach makes conn current and starts its loops. It reports false when the
// connection was closed meanwhile.
func (c *connection) attach(conn *ws.Conn) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return false
	}
	c.conn = conn
	c.stop = make(chan struct{})
	stop := c.stop
	c.mu.Unlock()

	go c.writeLoop(conn, stop)
	go c.readLoop(conn)
	return true
}

func (c *connection) writeLoop(conn *ws.Conn, stop <-chan struct{}) {
	for {
		select {
		case <-c.done:
			return
		case <-stop:
			return
		case msg := <-c.sendCh:
			if err := writeNow(conn, msg.data); err != nil {
				c.logger.Warn("WebSocket write error", "type", msg.msgType, "error", err)
				go c.reconnect(conn)
				return
			}
			c.sent.Add(1)
		}
	}
}

// readLoop reads ack messages from the server and routes them to ackCh.
func (c *connection) readLoop(conn *ws.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			c.logger.Warn("WebSocket read error", "error", err)
			go c.reconnect(conn)
			return
		}

		var ack streaming.AckMessage
		if err := json.Unmarshal(message, &ack); err != nil {
			c.logger.Debug("Non-ack message received", "raw", string(message))
			continue
		}

		if ack.Type == streaming.TypeAck {
			select {
			case c.ackCh <- ack:
			default:
				c.logger.Debug("Ack channel full, dropping", "for", ack.For)
			}
		}
	}
}

// reconnect replaces a failed socket. Only the first caller for a given
// socket does the work; the loop that fails second finds it already gone.
func (c *connection) reconnect(failed *ws.Conn) {
	c.mu.Lock()
	if c.closed || c.conn != failed {
		c.mu.Unlock()
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	close(c.stop)
	c.mu.Unlock()

	backoff := c.baseBackoff
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}

		c.logger.Info("Reconnecting to WebSocket", "attempt", attempt, "backoff", backoff)
		conn, err := c.dialOnce()
		if err != nil {
			c.logger.Warn("Reconnect dial failed", "attempt", attempt, "error", err)
			backoff = nextBackoff(backoff)
			continue
		}

		if msg := c.resumeMessage(); msg != nil {
			if err := writeNow(conn, msg); err != nil {
				c.logger.Warn("Failed to resume session after reconnect", "error", err)
				_ = conn.Close()
				backoff = nextBackoff(backoff)
				continue
			}
		}

		if !c.attach(conn) {
			return
		}
		c.reconnects.Add(1)
		c.logger.Info("WebSocket reconnected", "attempt", attempt)
		return
	}

	c.logger.Error("WebSocket reconnect failed after max attempts", "maxAttempts", maxReconnect)
}

func (c *connection) resumeMessage() []byte {
	if c.resume == nil {
		return nil
	}
	return c.resume()
}

func writeNow(conn *ws.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(ws.TextMessage, data)
}

func nextBackoff(d time.Duration) time.Duration {
	return min(d*2, maxBackoff)
}

// send queues data for the write loop, dropping it when the buffer is full.
// Drops are counted per message type.
func (c *connection) send(msgType string, data []byte) {
	select {
	case c.sendCh <- outgoing{msgType: msgType, data: data}:
	default:
		c.mu.Lock()
		c.dropped[msgType]++
		first := c.dropped[msgType] == 1
		c.mu.Unlock()
		if first {
			c.logger.Warn("WebSocket send channel full, dropping messages", "type", msgType)
		}
	}
}

func (c *connection) stats() streaming.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := streaming.Stats{Sent: c.sent.Load(), Reconnects: c.reconnects.Load()}
	if len(c.dropped) > 0 {
		st.Dropped = maps.Clone(c.dropped)
	}
	return st
}

// sendAndWait sends data and blocks until the server acknowledges with a
// matching ack message or the timeout expires.
func (c *connection) sendAndWait(data []byte, ackFor string, timeout time.Duration) error {
	c.send(ackFor, data)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ack := <-c.ackCh:
			if ack.For == ackFor {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-c.done:
			return fmt.Errorf("connection closed while waiting for ack of %q", ackFor)
		}
	}
}

// close sends a WebSocket close frame and shuts down all goroutines.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteControl(
			ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		return conn.Close()
	}
	return nil
}

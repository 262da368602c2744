package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Client is the live connection handle tracked by the hub. Outbound frames go
// through a bounded channel so a slow reader can never block a delivery; the
// write pump is the only goroutine touching the underlying connection for
// writes.
type Client struct {
	UserID string

	conn *websocket.Conn
	log  zerolog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(userID string, conn *websocket.Conn, queueSize int, log zerolog.Logger) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, queueSize),
		log:    log.With().Str("user_id", userID).Logger(),
	}
}

// push enqueues a frame without blocking. It reports whether the frame was
// accepted; a full or closed queue drops the frame, history remains the
// source of truth for the receiver.
func (c *Client) push(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Send marshals and enqueues one event, non-blocking.
func (c *Client) Send(v any) bool {
	frame, err := json.Marshal(v)
	if err != nil {
		c.log.Error().Err(err).Msg("marshal ws event")
		return false
	}
	return c.push(frame)
}

// closeQueue ends the write pump. Idempotent; the network connection itself
// is left to the owning handler.
func (c *Client) closeQueue() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump drains the outbound queue onto the connection. It exits when the
// queue is closed by the hub or when a write fails; either way the handler's
// deferred cleanup tears the connection down.
func (c *Client) WritePump() {
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			c.log.Warn().Err(err).Msg("ws write failed")
			c.conn.Close()
			return
		}
	}
}

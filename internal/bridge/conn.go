package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// errMalformed marks a message that could not be decoded. The connection
// survives it.
var errMalformed = errors.New("malformed message")

// Conn wraps a WebSocket connection carrying JSON envelopes.
type Conn struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	mu          sync.Mutex // Serializes writes
}

// NewConn creates a Conn. A zero readTimeout never times out.
func NewConn(conn *websocket.Conn, maxMessageSize int64, readTimeout time.Duration) *Conn {
	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}
	return &Conn{conn: conn, readTimeout: readTimeout}
}

// Read reads the next envelope (blocking). Blank messages are skipped.
func (c *Conn) Read() (Envelope, error) {
	for {
		if c.readTimeout > 0 {
			c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		}
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return Envelope{}, err
		}
		if len(message) == 0 {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", errMalformed, err)
		}
		if env.Type == "" {
			return env, fmt.Errorf("%w: no type", errMalformed)
		}
		return env, nil
	}
}

// Send writes one envelope with payload as its data.
func (c *Conn) Send(msgType string, id int64, payload any) error {
	env := Envelope{Type: msgType, ID: id}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", msgType, err)
		}
		env.Data = data
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

// Close closes the WebSocket connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Package testclient plays the game mod's side of the bridge protocol in
// tests.
package testclient

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/questabletractor/internal/bridge"
	"github.com/lawnchairsociety/questabletractor/internal/gametime"
)

// TestClient is a fake game mod connected to a bridge.
type TestClient struct {
	Name     string
	conn     *websocket.Conn
	messages []bridge.Envelope
	nextID   int64
	mu       sync.Mutex
	writeMu  sync.Mutex
	done     chan struct{}
}

// Dial connects to a bridge. serverURL may be an http:// URL from
// httptest; it is rewritten to ws:// and /ws is appended.
func Dial(name, serverURL string) (*TestClient, error) {
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http")
	if !strings.HasSuffix(wsURL, "/ws") {
		wsURL += "/ws"
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		Name: name,
		conn: conn,
		done: make(chan struct{}),
	}

	// Start reading messages in background
	go client.readMessages()

	return client, nil
}

// readMessages continuously reads messages from the bridge
func (c *TestClient) readMessages() {
	defer close(c.done)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env bridge.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		c.mu.Lock()
		c.messages = append(c.messages, env)
		c.mu.Unlock()
	}
}

// Send sends a message and returns the request ID it was given.
func (c *TestClient) Send(msgType string, payload any) (int64, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	env := bridge.Envelope{Type: msgType, ID: id}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		env.Data = data
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return 0, err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return id, c.conn.WriteMessage(websocket.TextMessage, raw)
}

// SendRaw sends bytes exactly as given.
func (c *TestClient) SendRaw(raw string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(raw))
}

// Request sends a message and waits for the reply or error carrying its ID.
func (c *TestClient) Request(msgType string, payload any, timeout time.Duration) (bridge.ReplyData, error) {
	id, err := c.Send(msgType, payload)
	if err != nil {
		return bridge.ReplyData{}, err
	}

	env, ok := c.waitFor(timeout, func(e bridge.Envelope) bool {
		return e.ID == id && (e.Type == bridge.TypeReply || e.Type == bridge.TypeError || e.Type == bridge.TypeReady)
	})
	if !ok {
		return bridge.ReplyData{}, fmt.Errorf("no reply to %s within %s", msgType, timeout)
	}

	switch env.Type {
	case bridge.TypeError:
		var e bridge.ErrorData
		json.Unmarshal(env.Data, &e)
		return bridge.ReplyData{}, fmt.Errorf("bridge error: %s", e.Message)
	case bridge.TypeReady:
		return bridge.ReplyData{Handled: true}, nil
	}

	var r bridge.ReplyData
	if err := json.Unmarshal(env.Data, &r); err != nil {
		return bridge.ReplyData{}, err
	}
	return r, nil
}

// Hello greets the bridge and waits until it is ready.
func (c *TestClient) Hello(token, ownerID string, date gametime.Date, world *bridge.WorldData) error {
	_, err := c.Request(bridge.TypeHello, bridge.HelloData{
		Token:   token,
		OwnerID: ownerID,
		Date:    date,
		World:   world,
	}, 2*time.Second)
	return err
}

// GetMessages returns all messages received so far
func (c *TestClient) GetMessages() []bridge.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]bridge.Envelope, len(c.messages))
	copy(result, c.messages)
	return result
}

// MessagesOfType returns the received messages of one type.
func (c *TestClient) MessagesOfType(msgType string) []bridge.Envelope {
	var out []bridge.Envelope
	for _, m := range c.GetMessages() {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

// ClearMessages clears the message buffer
func (c *TestClient) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

// WaitForMessage waits for a message of the given type (with timeout)
func (c *TestClient) WaitForMessage(msgType string, timeout time.Duration) (bridge.Envelope, bool) {
	return c.waitFor(timeout, func(e bridge.Envelope) bool { return e.Type == msgType })
}

func (c *TestClient) waitFor(timeout time.Duration, match func(bridge.Envelope) bool) (bridge.Envelope, bool) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		for _, msg := range c.GetMessages() {
			if match(msg) {
				return msg, true
			}
		}
		time.Sleep(10 * time.Millisecond)
	}

	return bridge.Envelope{}, false
}

// WaitForClose waits for the bridge to drop the connection.
func (c *TestClient) WaitForClose(timeout time.Duration) bool {
	select {
	case <-c.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close closes the client connection
func (c *TestClient) Close() error {
	c.writeMu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// PrintMessages prints all messages (for debugging)
func (c *TestClient) PrintMessages() {
	fmt.Printf("\n=== Messages for %s ===\n", c.Name)
	for i, msg := range c.GetMessages() {
		fmt.Printf("[%d] %s %d %s\n", i, msg.Type, msg.ID, string(msg.Data))
	}
	fmt.Println("======================")
}

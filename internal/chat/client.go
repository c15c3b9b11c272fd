package chat

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Frame is the JSON envelope on the socket in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client is one socket. Send is drained by the transport's write pump.
type Client struct {
	ID   string
	Send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(buffer int) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Send: make(chan []byte, buffer),
	}
}

// Emit queues an event for the socket. It reports false when the client
// is gone or its buffer is full; the frame is dropped in both cases.
func (c *Client) Emit(event string, data any) bool {
	payload, err := json.Marshal(data)
	if err != nil {
		return false
	}
	frame, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

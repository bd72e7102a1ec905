package game

import (
	"encoding/json"
	"sync"
)

// Client is the core's handle on one transport connection: an id and a
// bounded outbound queue. Delivery never blocks; a full queue drops.
type Client struct {
	id   string
	send chan []byte

	closeOnce sync.Once
}

func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 64
	}
	return &Client{id: id, send: make(chan []byte, buffer)}
}

func (c *Client) ID() string { return c.id }

// Outbound is drained by the transport writer.
func (c *Client) Outbound() <-chan []byte { return c.send }

// Close ends the outbound stream. The owner must unregister the client from
// the Coordinator first so nothing is enqueued afterwards.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Send enqueues an envelope. It reports false when the queue is full.
func (c *Client) Send(env Envelope) bool {
	b, err := json.Marshal(env)
	if err != nil {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		// MVP: slow reader, drop (no backpressure)
		return false
	}
}

// Package realtime fans order events out to connected clients by channel.
// A channel is an order id or a restaurant id.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const defaultBuffer = 32

var ErrHubClosed = errors.New("hub closed")

// Event is the frame delivered to subscribers.
type Event struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	id       string
	send     chan Event
	channels map[string]struct{}
}

func (c *Client) ID() string { return c.id }

// Events is closed when the client is disconnected or the hub shuts down.
func (c *Client) Events() <-chan Event { return c.send }

type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}
	closed  bool

	buffer int
	log    *slog.Logger
}

type Option func(*Hub)

// WithBuffer sets how many undelivered events a client may queue before
// new ones are dropped.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

func NewHub(log *slog.Logger, opts ...Option) *Hub {
	h := &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
		buffer:  defaultBuffer,
		log:     log.With("component", "hub"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Connect() (*Client, error) {
	c := &Client{
		id:       uuid.NewString(),
		send:     make(chan Event, h.buffer),
		channels: make(map[string]struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	h.clients[c] = struct{}{}
	return c, nil
}

func (h *Hub) Subscribe(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}

	room, ok := h.rooms[channel]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[channel] = room
	}
	room[c] = struct{}{}
	c.channels[channel] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(c, channel)
}

func (h *Hub) leave(c *Client, channel string) {
	delete(c.channels, channel)
	room, ok := h.rooms[channel]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, channel)
	}
}

// Disconnect drops every subscription of c and closes its event stream.
// Calling it twice is harmless.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for channel := range c.channels {
		h.leave(c, channel)
	}
	delete(h.clients, c)
	close(c.send)
}

// Publish encodes payload and delivers it to the current subscribers of
// channel. There is no replay for clients that subscribe later.
func (h *Hub) Publish(_ context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	return h.Broadcast(Event{Event: event, Channel: channel, Data: data})
}

// Broadcast delivers an already encoded event. A client whose queue is
// full misses the event.
func (h *Hub) Broadcast(e Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrHubClosed
	}

	for c := range h.rooms[e.Channel] {
		select {
		case c.send <- e:
		default:
			h.log.Warn("client queue full, event dropped", "client", c.id, "channel", e.Channel, "event", e.Event)
		}
	}
	return nil
}

func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[channel])
}

// Close disconnects every client. Later publishes fail with ErrHubClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for c := range h.clients {
		h.drop(c)
	}
	h.closed = true
}

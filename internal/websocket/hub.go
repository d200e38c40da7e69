// Package websocket pushes list invalidations to connected browsers so they
// re-fetch whatever another member just changed.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageTypeInvalidate is the only message type the hub sends.
const MessageTypeInvalidate = "invalidate"

// Message names the entity that changed. Clients re-fetch that list.
type Message struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
	Actor  string `json:"actor,omitempty"`
}

// Invalidate builds the message for a mutation of entity by actor.
func Invalidate(entity, action string, id int64, actor string) Message {
	return Message{
		Type:   MessageTypeInvalidate,
		Entity: entity,
		Action: action,
		ID:     id,
		Actor:  actor,
	}
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("client connected", "member", c.member, "clients", n)
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends msg to every client. A client whose buffer is full misses
// the message; its next successful read of any list resynchronises it.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropped message for slow client", "member", c.member, "entity", msg.Entity)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

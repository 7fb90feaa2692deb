package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub tracks one notification connection per player. A newer connection for
// the same player replaces the older one.
type Hub struct {
	clients map[string]*Client
	mu      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[c.ID]; ok && old != c {
		close(old.Send)
	}
	h.clients[c.ID] = c
	log.Debug().Str("player", c.ID).Msg("Notification client connected")
}

// RemoveClient forgets c unless it has already been replaced.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.clients[c.ID]; ok && cur == c {
		delete(h.clients, c.ID)
		close(c.Send)
		log.Debug().Str("player", c.ID).Msg("Notification client disconnected")
	}
}

// SendToClient queues message for the player without blocking. It reports
// false when the player is not connected or their queue is full.
func (h *Hub) SendToClient(playerID string, message []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, exists := h.clients[playerID]
	if !exists {
		return false
	}

	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

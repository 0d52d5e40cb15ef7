package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/harshith2312008/leon-chat-app/logger"
	"github.com/harshith2312008/leon-chat-app/models"
)

// Hub is the presence registry: the process-wide map from user id to
// that user's live connections. A user may hold any number of
// simultaneous connections. All state is in-memory; losing every
// connection just means the user is offline and reads history later.
type Hub struct {
	mu          sync.RWMutex
	clients     map[string]*Client
	userConns   map[string]map[*Client]bool
	sendTimeout time.Duration
}

var HubInstance *Hub

func NewHub(sendTimeout time.Duration) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		userConns:   make(map[string]map[*Client]bool),
		sendTimeout: sendTimeout,
	}
}

// Register adds a connection to its user's live set. Idempotent per
// connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; ok {
		return
	}
	h.clients[c.ID] = c
	if h.userConns[c.UserID] == nil {
		h.userConns[c.UserID] = make(map[*Client]bool)
	}
	h.userConns[c.UserID][c] = true
}

// Unregister removes a connection from whichever user owns it and
// closes its send channel. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	if conns := h.userConns[c.UserID]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.userConns, c.UserID)
		}
	}
	close(c.Send)
}

// ConnectionsFor returns a snapshot of the user's live connections.
// The snapshot does not track later register/unregister calls.
func (h *Hub) ConnectionsFor(userID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := make([]*Client, 0, len(h.userConns[userID]))
	for c := range h.userConns[userID] {
		conns = append(conns, c)
	}
	return conns
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}

// Publish fans event out to every live connection of userID and
// reports whether at least one connection accepted it. A connection
// that cannot take the event within the send timeout loses this event
// only; it is not disconnected, and other connections are unaffected.
func (h *Hub) Publish(userID string, event *models.Event) bool {
	return h.PublishExcept(userID, "", event)
}

// PublishExcept is Publish minus one connection, used to echo a
// message to the sender's other devices without bouncing it back to
// the originating connection.
func (h *Hub) PublishExcept(userID, exceptConnID string, event *models.Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("marshal event", "event", event.Event, "error", err)
		return false
	}

	// The read lock is held across the sends so Unregister cannot
	// close a send channel mid fan-out.
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := false
	for c := range h.userConns[userID] {
		if c.ID == exceptConnID {
			continue
		}
		select {
		case c.Send <- data:
			delivered = true
		case <-time.After(h.sendTimeout):
			logger.Warn("event dropped for stalled connection",
				"user_id", userID, "conn_id", c.ID, "event", event.Event)
		}
	}
	return delivered
}

func InitHub(sendTimeout time.Duration) *Hub {
	HubInstance = NewHub(sendTimeout)
	return HubInstance
}

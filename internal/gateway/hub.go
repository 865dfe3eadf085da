package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/memoriagame/memoria/internal/model"
	"github.com/memoriagame/memoria/internal/services/game"
)

// Hub tracks live websocket clients and the connection-to-identity
// bindings established by login. It implements game.Broadcaster.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client      // conn ID -> client
	users   map[model.UserID]string // user ID -> conn ID
	bound   map[string]model.UserID // conn ID -> user ID
}

// Ensure Hub implements the broadcaster used by the scheduler
var _ game.Broadcaster = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With(slog.String("component", "hub")),
		clients: make(map[string]*Client),
		users:   make(map[model.UserID]string),
		bound:   make(map[string]model.UserID),
	}
}

// Add registers a connected client
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected",
		slog.String("conn_id", client.ID),
		slog.Int("total_clients", total),
	)
}

// Remove drops a client and its identity binding, returning the bound
// user ID if the connection had logged in.
func (h *Hub) Remove(client *Client) (model.UserID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return "", false
	}
	delete(h.clients, client.ID)
	close(client.send)

	userID, ok := h.bound[client.ID]
	if ok {
		delete(h.bound, client.ID)
		if h.users[userID] == client.ID {
			delete(h.users, userID)
		}
	}
	h.logger.Info("client disconnected",
		slog.String("conn_id", client.ID),
		slog.Int("total_clients", len(h.clients)),
	)
	return userID, ok
}

// Bind associates a connection with an authenticated identity
func (h *Hub) Bind(connID string, userID model.UserID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bound[connID] = userID
	h.users[userID] = connID
}

// UserID returns the identity bound to a connection, if any
func (h *Hub) UserID(connID string) (model.UserID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	userID, ok := h.bound[connID]
	return userID, ok
}

// IsConnected reports whether a live connection is bound to the identity
func (h *Hub) IsConnected(userID model.UserID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	connID, ok := h.users[userID]
	if !ok {
		return false
	}
	_, live := h.clients[connID]
	return live
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event model.EventType, payload any) {
	data, err := json.Marshal(Frame{Type: string(event), Data: payload})
	if err != nil {
		h.logger.Error("failed to marshal broadcast",
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.trySend(data, h.logger)
	}
}

// SendToUser sends an event to the connection bound to the given
// identity. A no-op when the user has no live connection.
func (h *Hub) SendToUser(userID model.UserID, event model.EventType, payload any) {
	h.mu.RLock()
	connID, ok := h.users[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.SendToConn(connID, string(event), payload)
}

// SendToConn sends an event to a single connection
func (h *Hub) SendToConn(connID string, event string, payload any) {
	data, err := json.Marshal(Frame{Type: event, Data: payload})
	if err != nil {
		h.logger.Error("failed to marshal frame",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}

	// The read lock pins the client's send channel open: Remove deletes
	// the client and closes the channel under the write lock
	h.mu.RLock()
	defer h.mu.RUnlock()
	client := h.clients[connID]
	if client == nil {
		return
	}
	client.trySend(data, h.logger)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

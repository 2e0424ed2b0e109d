package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mverkerk/rpsbattle/internal/model"
)

// Hub tracks which connections belong to which game room and fans
// broadcasts out to every room member
type Hub struct {
	mu      sync.RWMutex
	rooms   map[model.GameID]map[*Client]bool
	members map[*Client]map[model.GameID]bool
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:   make(map[model.GameID]map[*Client]bool),
		members: make(map[*Client]map[model.GameID]bool),
		logger:  logger.With(slog.String("component", "ws-hub")),
	}
}

// Join adds a connection to a game room
func (h *Hub) Join(gameID model.GameID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[gameID] == nil {
		h.rooms[gameID] = make(map[*Client]bool)
	}
	h.rooms[gameID][client] = true

	if h.members[client] == nil {
		h.members[client] = make(map[model.GameID]bool)
	}
	h.members[client][gameID] = true
}

// Leave removes a connection from a game room
func (h *Hub) Leave(gameID model.GameID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(gameID, client)
}

// LeaveAll removes a connection from every room it joined
func (h *Hub) LeaveAll(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for gameID := range h.members[client] {
		h.leaveLocked(gameID, client)
	}
	delete(h.members, client)
}

func (h *Hub) leaveLocked(gameID model.GameID, client *Client) {
	if room, ok := h.rooms[gameID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, gameID)
		}
	}
	if games, ok := h.members[client]; ok {
		delete(games, gameID)
	}
}

// Broadcast sends an event to every connection in a game room
func (h *Hub) Broadcast(gameID model.GameID, event EventType, payload any) {
	env, err := NewEnvelope(event, payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast",
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[gameID] {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("broadcast dropped - client buffer full",
				slog.String("game_id", string(gameID)),
				slog.String("conn_id", client.id),
			)
		}
	}
}

// RoomSize returns the number of connections in a game room
func (h *Hub) RoomSize(gameID model.GameID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

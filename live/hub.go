// Package live pushes competition updates (reported matches, finishes) to
// websocket subscribers grouped into per-competition rooms.
package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Event types pushed to competition rooms.
const (
	EventMatchReported       = "MATCH_REPORTED"
	EventCompetitionFinished = "COMPETITION_FINISHED"
	EventStandingsUpdated    = "STANDINGS_UPDATED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// CompetitionRoom names the room subscribers of one competition join.
func CompetitionRoom(competitionID int) string {
	return fmt.Sprintf("competition_%d", competitionID)
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms map[string]map[*Client]bool
	mu    sync.RWMutex

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run owns the room membership maps; it is meant to live in its own goroutine
// for the lifetime of the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Debug("live client registered",
				slog.String("room", client.Room),
				slog.Int("room_size", len(h.rooms[client.Room])),
			)
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if roomClients, ok := h.rooms[client.Room]; ok {
				if _, okClient := roomClients[client]; okClient {
					client.closeSend()
					delete(roomClients, client)
					if len(roomClients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.logger.Debug("live client unregistered",
						slog.String("room", client.Room),
						slog.Int("room_size", len(roomClients)),
					)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom fans a message out to every subscriber of the room. Slow
// clients are skipped rather than blocking the caller.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal live message",
			slog.String("room", roomID),
			slog.String("error", err.Error()),
		)
		return
	}

	for client := range roomClients {
		client.trySend(messageBytes)
	}
}

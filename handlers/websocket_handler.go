package handlers

import (
	"log/slog"
	"net/http"

	"github.com/friendsleague/server/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is fixed in deployment.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs подключает клиента к комнате конкретного соревнования.
// Клиент подключается к /ws/competitions/{competitionID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade уже отправил HTTP-ошибку клиенту.
		slog.Debug("websocket upgrade failed",
			slog.Int("competition_id", competitionID),
			slog.Any("error", err),
		)
		return
	}

	client := live.NewClient(h.hub, conn, live.CompetitionRoom(competitionID))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

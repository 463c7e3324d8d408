package handlers

import (
	"net/http"

	"github.com/friendsleague/server/steam"
)

type SteamHandler struct {
	client *steam.Client
}

func NewSteamHandler(client *steam.Client) *SteamHandler {
	return &SteamHandler{client: client}
}

// SearchHandler обрабатывает GET /steam/search?query=...
func (h *SteamHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	items, err := h.client.Search(r.Context(), query)
	if err != nil {
		// Ошибка на стороне Steam, а не у нас.
		errorResponse(w, r, http.StatusBadGateway, "steam search is unavailable")
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"items": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/friendsleague/server/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// TitlesHandler обрабатывает GET /leaderboard
func (h *LeaderboardHandler) TitlesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboardService.Titles(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

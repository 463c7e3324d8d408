package handlers

import (
	"net/http"

	"github.com/friendsleague/server/middleware"
	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/services"
)

type BacklogHandler struct {
	backlogService services.BacklogService
}

func NewBacklogHandler(backlogService services.BacklogService) *BacklogHandler {
	return &BacklogHandler{backlogService: backlogService}
}

// ListHandler обрабатывает GET /backlog
func (h *BacklogHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	items, err := h.backlogService.ListByUser(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"backlog": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetStatusHandler обрабатывает PUT /backlog/{gameID}
func (h *BacklogHandler) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.BacklogStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	item, err := h.backlogService.SetStatus(r.Context(), currentUserID, gameID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"item": item}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveHandler обрабатывает DELETE /backlog/{gameID}
func (h *BacklogHandler) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.backlogService.Remove(r.Context(), currentUserID, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

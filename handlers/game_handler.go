package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/friendsleague/server/middleware"
	"github.com/friendsleague/server/repositories"
	"github.com/friendsleague/server/services"
	"github.com/go-chi/chi/v5"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// CreateHandler обрабатывает POST /games
func (h *GameHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create game")
		return
	}

	var input services.CreateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Create(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /games/{gameID}
func (h *GameHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBySlugHandler обрабатывает GET /games/slug/{slug}
func (h *GameHandler) GetBySlugHandler(w http.ResponseWriter, r *http.Request) {
	gameSlug := chi.URLParam(r, "slug")
	if gameSlug == "" {
		badRequestResponse(w, r, errors.New("missing slug in URL path"))
		return
	}

	game, err := h.gameService.GetBySlug(r.Context(), gameSlug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /games
func (h *GameHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListGamesFilter
	query := r.URL.Query()

	if search := query.Get("search"); search != "" {
		filter.TitleSearch = search
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		} else {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
	} else {
		filter.Limit = 50
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		} else {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
	}

	games, err := h.gameService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadCoverHandler обрабатывает POST /games/{gameID}/cover (multipart form, поле "cover")
func (h *GameHandler) UploadCoverHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserIDFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, errors.New("could not parse multipart form"))
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		badRequestResponse(w, r, errors.New("cover file is required"))
		return
	}
	defer file.Close()

	game, err := h.gameService.UploadCover(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

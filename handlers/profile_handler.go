package handlers

import (
	"errors"
	"net/http"

	"github.com/friendsleague/server/middleware"
	"github.com/friendsleague/server/services"
)

const maxUploadBytes = 5 << 20 // 5MB

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetByIDHandler обрабатывает GET /profiles/{profileID}
func (h *ProfileHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "profileID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStatsHandler обрабатывает GET /profiles/{profileID}/stats
func (h *ProfileHandler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "profileID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.profileService.GetStats(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler обрабатывает PUT /profiles/me
func (h *ProfileHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Username string `json:"username"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateUsername(r.Context(), currentUserID, input.Username)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAvatarHandler обрабатывает POST /profiles/me/avatar (multipart form, поле "avatar")
func (h *ProfileHandler) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, errors.New("could not parse multipart form"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequestResponse(w, r, errors.New("avatar file is required"))
		return
	}
	defer file.Close()

	profile, err := h.profileService.UploadAvatar(r.Context(), currentUserID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/repositories"
	"github.com/friendsleague/server/storage"
	"github.com/google/uuid"
)

type ProfileService interface {
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	GetStats(ctx context.Context, userID int) (*models.PlayerStats, error)
	UpdateUsername(ctx context.Context, userID int, username string) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.Profile, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	statsRepo   repositories.StatsRepository
	uploader    storage.FileUploader
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	statsRepo repositories.StatsRepository,
	uploader storage.FileUploader,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		statsRepo:   statsRepo,
		uploader:    uploader,
	}
}

func (s *profileService) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile %d: %w", id, err)
	}
	populateProfileAvatarURL(profile, s.uploader)
	return profile, nil
}

// GetStats reads the externally maintained player_stats aggregate; a player
// with no recorded matches gets a zero-valued row, not an error.
func (s *profileService) GetStats(ctx context.Context, userID int) (*models.PlayerStats, error) {
	stats, err := s.statsRepo.GetPlayerStats(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
			return &models.PlayerStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get stats for user %d: %w", userID, err)
	}
	return stats, nil
}

func (s *profileService) UpdateUsername(ctx context.Context, userID int, username string) (*models.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	if err := s.profileRepo.UpdateUsername(ctx, userID, username); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProfileNotFound):
			return nil, ErrProfileNotFound
		case errors.Is(err, repositories.ErrProfileUsernameConflict):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update username for user %d: %w", userID, err)
	}

	return s.GetByID(ctx, userID)
}

func (s *profileService) UploadAvatar(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile %d: %w", userID, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := profile.AvatarKey
	if err := s.profileRepo.UpdateAvatarKey(ctx, userID, &key); err != nil {
		return nil, fmt.Errorf("failed to persist avatar key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		// Best effort; a dangling object is not worth failing the request.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	profile.AvatarKey = &key
	populateProfileAvatarURL(profile, s.uploader)
	return profile, nil
}

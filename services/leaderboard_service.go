package services

import (
	"context"
	"fmt"

	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/repositories"
	"github.com/friendsleague/server/storage"
)

type LeaderboardService interface {
	// Titles ranks players by finished competitions won.
	Titles(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	statsRepo   repositories.StatsRepository
	profileRepo repositories.ProfileRepository
	uploader    storage.FileUploader
}

func NewLeaderboardService(
	statsRepo repositories.StatsRepository,
	profileRepo repositories.ProfileRepository,
	uploader storage.FileUploader,
) LeaderboardService {
	return &leaderboardService{
		statsRepo:   statsRepo,
		profileRepo: profileRepo,
		uploader:    uploader,
	}
}

func (s *leaderboardService) Titles(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	entries, err := s.statsRepo.TitlesLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles leaderboard: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}
	profiles, err := s.profileRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard profiles: %w", err)
	}

	byID := make(map[int]*models.Profile, len(profiles))
	for i := range profiles {
		populateProfileAvatarURL(&profiles[i], s.uploader)
		byID[profiles[i].ID] = &profiles[i]
	}
	for i := range entries {
		entries[i].Profile = byID[entries[i].UserID]
	}
	return entries, nil
}

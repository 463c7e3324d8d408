package services

import (
	"context"
	"testing"

	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsRepo struct {
	stats   map[int]*models.PlayerStats
	entries []models.LeaderboardEntry
}

func (f *fakeStatsRepo) GetPlayerStats(_ context.Context, userID int) (*models.PlayerStats, error) {
	s, ok := f.stats[userID]
	if !ok {
		return nil, repositories.ErrPlayerStatsNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStatsRepo) TitlesLeaderboard(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit > 0 && limit < len(f.entries) {
		return append([]models.LeaderboardEntry(nil), f.entries[:limit]...), nil
	}
	return append([]models.LeaderboardEntry(nil), f.entries...), nil
}

func TestLeaderboardTitlesAttachesProfiles(t *testing.T) {
	profiles := newFakeProfileRepo()
	avatarKey := "avatars/7/x.png"
	profiles.add(models.Profile{ID: 7, Username: "champ", AvatarKey: &avatarKey})
	profiles.add(models.Profile{ID: 8, Username: "runnerup"})

	stats := &fakeStatsRepo{entries: []models.LeaderboardEntry{
		{UserID: 7, Titles: 3},
		{UserID: 8, Titles: 1},
	}}

	svc := NewLeaderboardService(stats, profiles, &fakeUploader{})

	entries, err := svc.Titles(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].Profile)
	assert.Equal(t, "champ", entries[0].Profile.Username)
	require.NotNil(t, entries[0].Profile.AvatarURL)
	assert.Equal(t, "https://cdn.test/avatars/7/x.png", *entries[0].Profile.AvatarURL)
	assert.Equal(t, 3, entries[0].Titles)
}

func TestLeaderboardTitlesRespectsLimit(t *testing.T) {
	stats := &fakeStatsRepo{entries: []models.LeaderboardEntry{
		{UserID: 7, Titles: 3},
		{UserID: 8, Titles: 1},
	}}

	svc := NewLeaderboardService(stats, newFakeProfileRepo(), &fakeUploader{})

	entries, err := svc.Titles(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/friendsleague/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileGetByIDPopulatesAvatarAndHidesHash(t *testing.T) {
	repo := newFakeProfileRepo()
	key := "avatars/1/a.png"
	repo.add(models.Profile{ID: 1, Username: "ana", PasswordHash: "secret", AvatarKey: &key})

	svc := NewProfileService(repo, &fakeStatsRepo{}, &fakeUploader{})

	profile, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, profile.PasswordHash)
	require.NotNil(t, profile.AvatarURL)
	assert.Equal(t, "https://cdn.test/avatars/1/a.png", *profile.AvatarURL)
}

func TestProfileGetStatsZeroValuedWhenMissing(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeStatsRepo{stats: map[int]*models.PlayerStats{}}, &fakeUploader{})

	stats, err := svc.GetStats(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, stats.UserID)
	assert.Zero(t, stats.Wins)
	assert.Zero(t, stats.TotalMatches)
}

func TestProfileUpdateUsername(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.add(models.Profile{ID: 1, Username: "ana"})
	repo.add(models.Profile{ID: 2, Username: "bia"})

	svc := NewProfileService(repo, &fakeStatsRepo{}, &fakeUploader{})

	_, err := svc.UpdateUsername(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.UpdateUsername(context.Background(), 1, "bia")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	profile, err := svc.UpdateUsername(context.Background(), 1, "ana2")
	require.NoError(t, err)
	assert.Equal(t, "ana2", profile.Username)
}

func TestProfileUploadAvatarReplacesOldKey(t *testing.T) {
	repo := newFakeProfileRepo()
	oldKey := "avatars/1/old.jpg"
	repo.add(models.Profile{ID: 1, Username: "ana", AvatarKey: &oldKey})

	uploader := &fakeUploader{}
	svc := NewProfileService(repo, &fakeStatsRepo{}, uploader)

	profile, err := svc.UploadAvatar(context.Background(), 1, "image/webp", strings.NewReader("img"))
	require.NoError(t, err)

	require.Len(t, uploader.uploaded, 1)
	assert.True(t, strings.HasPrefix(uploader.uploaded[0], "avatars/1/"))
	assert.True(t, strings.HasSuffix(uploader.uploaded[0], ".webp"))
	assert.Equal(t, []string{oldKey}, uploader.deleted)
	require.NotNil(t, profile.AvatarURL)
}

func TestGetExtensionFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		ext         string
		wantErr     bool
	}{
		{"image/jpeg", ".jpg", false},
		{"image/png", ".png", false},
		{"image/webp", ".webp", false},
		{"image/svg+xml", ".svg", false},
		{"application/pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		ext, err := GetExtensionFromContentType(tt.contentType)
		if tt.wantErr {
			assert.Error(t, err, tt.contentType)
			continue
		}
		require.NoError(t, err, tt.contentType)
		assert.Equal(t, tt.ext, ext)
	}
}

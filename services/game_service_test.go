package services

import (
	"context"
	"strings"
	"testing"

	"github.com/friendsleague/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameCreateDerivesSlugFromTitle(t *testing.T) {
	svc := NewGameService(newFakeGameRepo(), &fakeUploader{})

	game, err := svc.Create(context.Background(), 1, CreateGameInput{
		Title: "Mario Kart 8 Deluxe",
	})
	require.NoError(t, err)
	assert.Equal(t, "mario-kart-8-deluxe", game.Slug)
	require.NotNil(t, game.CreatedBy)
	assert.Equal(t, 1, *game.CreatedBy)
}

func TestGameCreateKeepsExplicitSlug(t *testing.T) {
	svc := NewGameService(newFakeGameRepo(), &fakeUploader{})

	game, err := svc.Create(context.Background(), 1, CreateGameInput{
		Title: "Street Fighter 6",
		Slug:  "sf6",
	})
	require.NoError(t, err)
	assert.Equal(t, "sf6", game.Slug)
}

func TestGameCreateValidation(t *testing.T) {
	svc := NewGameService(newFakeGameRepo(), &fakeUploader{})

	_, err := svc.Create(context.Background(), 1, CreateGameInput{Title: "   "})
	assert.ErrorIs(t, err, ErrGameTitleRequired)
}

func TestGameCreateSlugConflict(t *testing.T) {
	repo := newFakeGameRepo()
	svc := NewGameService(repo, &fakeUploader{})

	_, err := svc.Create(context.Background(), 1, CreateGameInput{Title: "Tekken 8"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 2, CreateGameInput{Title: "Tekken 8"})
	assert.ErrorIs(t, err, ErrGameSlugConflict)
}

func TestGameUploadCoverReplacesOldKey(t *testing.T) {
	repo := newFakeGameRepo()
	uploader := &fakeUploader{}
	svc := NewGameService(repo, uploader)

	created, err := svc.Create(context.Background(), 1, CreateGameInput{Title: "Elden Ring"})
	require.NoError(t, err)

	oldKey := "covers/old.jpg"
	repo.games[created.ID].CoverKey = &oldKey

	game, err := svc.UploadCover(context.Background(), created.ID, "image/png", strings.NewReader("img"))
	require.NoError(t, err)

	require.Len(t, uploader.uploaded, 1)
	assert.True(t, strings.HasSuffix(uploader.uploaded[0], ".png"))
	assert.Equal(t, []string{oldKey}, uploader.deleted)
	require.NotNil(t, game.CoverURL)
	assert.Contains(t, *game.CoverURL, "https://cdn.test/covers/")
}

func TestGameGetByIDPrefersUploadedCover(t *testing.T) {
	repo := newFakeGameRepo()
	svc := NewGameService(repo, &fakeUploader{})

	external := "https://example.com/cover.jpg"
	game := &models.Game{Title: "Hades II", Slug: "hades-ii", CoverURL: &external}
	require.NoError(t, repo.Create(context.Background(), game))
	key := "covers/1/abc.jpg"
	repo.games[game.ID].CoverKey = &key

	got, err := svc.GetByID(context.Background(), game.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CoverURL)
	assert.Equal(t, "https://cdn.test/covers/1/abc.jpg", *got.CoverURL)
}

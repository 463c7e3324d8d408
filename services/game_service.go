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
	"github.com/gosimple/slug"
)

type CreateGameInput struct {
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	CoverURL  *string  `json:"cover_url"`
	Platforms []string `json:"platforms"`
}

type GameService interface {
	Create(ctx context.Context, creatorID int, input CreateGameInput) (*models.Game, error)
	GetByID(ctx context.Context, id int) (*models.Game, error)
	GetBySlug(ctx context.Context, gameSlug string) (*models.Game, error)
	List(ctx context.Context, filter repositories.ListGamesFilter) ([]models.Game, error)
	UploadCover(ctx context.Context, gameID int, contentType string, reader io.Reader) (*models.Game, error)
}

type gameService struct {
	gameRepo repositories.GameRepository
	uploader storage.FileUploader
}

func NewGameService(gameRepo repositories.GameRepository, uploader storage.FileUploader) GameService {
	return &gameService{gameRepo: gameRepo, uploader: uploader}
}

func (s *gameService) Create(ctx context.Context, creatorID int, input CreateGameInput) (*models.Game, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrGameTitleRequired
	}

	gameSlug := strings.TrimSpace(input.Slug)
	if gameSlug == "" {
		gameSlug = slug.Make(input.Title)
	}

	platforms := make([]string, 0, len(input.Platforms))
	for _, p := range input.Platforms {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}

	game := &models.Game{
		Title:     input.Title,
		Slug:      gameSlug,
		CoverURL:  input.CoverURL,
		Platforms: platforms,
		CreatedBy: &creatorID,
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		if errors.Is(err, repositories.ErrGameSlugConflict) {
			return nil, ErrGameSlugConflict
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *gameService) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	s.populateCoverURL(game)
	return game, nil
}

func (s *gameService) GetBySlug(ctx context.Context, gameSlug string) (*models.Game, error) {
	game, err := s.gameRepo.GetBySlug(ctx, gameSlug)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game by slug %q: %w", gameSlug, err)
	}
	s.populateCoverURL(game)
	return game, nil
}

func (s *gameService) List(ctx context.Context, filter repositories.ListGamesFilter) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	for i := range games {
		s.populateCoverURL(&games[i])
	}
	return games, nil
}

func (s *gameService) UploadCover(ctx context.Context, gameID int, contentType string, reader io.Reader) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("covers/%d/%s%s", gameID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload cover: %w", err)
	}

	oldKey := game.CoverKey
	if err := s.gameRepo.UpdateCoverKey(ctx, gameID, &key); err != nil {
		return nil, fmt.Errorf("failed to persist cover key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	game.CoverKey = &key
	s.populateCoverURL(game)
	return game, nil
}

// populateCoverURL prefers an uploaded cover over the external cover_url the
// game was created with.
func (s *gameService) populateCoverURL(game *models.Game) {
	if game == nil || s.uploader == nil {
		return
	}
	if game.CoverKey != nil && *game.CoverKey != "" {
		if url := s.uploader.GetPublicURL(*game.CoverKey); url != "" {
			game.CoverURL = &url
		}
	}
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/repositories"
)

type BacklogService interface {
	// SetStatus inserts or replaces the (user, game) backlog entry.
	SetStatus(ctx context.Context, userID, gameID int, status models.BacklogStatus) (*models.BacklogItem, error)
	ListByUser(ctx context.Context, userID int) ([]models.BacklogItem, error)
	Remove(ctx context.Context, userID, gameID int) error
}

type backlogService struct {
	backlogRepo repositories.BacklogRepository
}

func NewBacklogService(backlogRepo repositories.BacklogRepository) BacklogService {
	return &backlogService{backlogRepo: backlogRepo}
}

func isValidBacklogStatus(status models.BacklogStatus) bool {
	switch status {
	case models.BacklogPlanned, models.BacklogPlaying, models.BacklogCompleted, models.BacklogDropped:
		return true
	}
	return false
}

func (s *backlogService) SetStatus(ctx context.Context, userID, gameID int, status models.BacklogStatus) (*models.BacklogItem, error) {
	if !isValidBacklogStatus(status) {
		return nil, ErrBacklogInvalidStatus
	}

	item := &models.BacklogItem{
		UserID: userID,
		GameID: gameID,
		Status: status,
	}
	if err := s.backlogRepo.Upsert(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrBacklogGameInvalid) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to upsert backlog item (user %d, game %d): %w", userID, gameID, err)
	}
	return item, nil
}

func (s *backlogService) ListByUser(ctx context.Context, userID int) ([]models.BacklogItem, error) {
	items, err := s.backlogRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list backlog for user %d: %w", userID, err)
	}
	return items, nil
}

func (s *backlogService) Remove(ctx context.Context, userID, gameID int) error {
	err := s.backlogRepo.Delete(ctx, userID, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrBacklogItemNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to remove backlog item (user %d, game %d): %w", userID, gameID, err)
	}
	return nil
}

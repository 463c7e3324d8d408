package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/friendsleague/server/models"
	"github.com/lib/pq"
)

var (
	ErrBacklogItemNotFound   = errors.New("backlog item not found")
	ErrBacklogGameInvalid    = errors.New("backlog game conflict or invalid")
	ErrBacklogProfileInvalid = errors.New("backlog profile conflict or invalid")
)

type BacklogRepository interface {
	// Upsert inserts or replaces the status keyed on (user_id, game_id).
	Upsert(ctx context.Context, item *models.BacklogItem) error
	ListByUser(ctx context.Context, userID int) ([]models.BacklogItem, error)
	Delete(ctx context.Context, userID, gameID int) error
}

type postgresBacklogRepository struct {
	db *sql.DB
}

func NewPostgresBacklogRepository(db *sql.DB) BacklogRepository {
	return &postgresBacklogRepository{db: db}
}

func (r *postgresBacklogRepository) Upsert(ctx context.Context, item *models.BacklogItem) error {
	query := `
		INSERT INTO backlog_items (user_id, game_id, status, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, game_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.GameID, item.Status,
	).Scan(&item.ID, &item.UpdatedAt)

	return r.handleBacklogError(err)
}

func (r *postgresBacklogRepository) ListByUser(ctx context.Context, userID int) ([]models.BacklogItem, error) {
	query := `
		SELECT b.id, b.user_id, b.game_id, b.status, b.updated_at,
		       g.id, g.title, g.slug, g.cover_url, g.platforms, g.created_by, g.cover_key, g.created_at
		FROM backlog_items b
		JOIN games g ON g.id = b.game_id
		WHERE b.user_id = $1
		ORDER BY b.updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query backlog for user %d: %w", userID, err)
	}
	defer rows.Close()

	items := make([]models.BacklogItem, 0)
	for rows.Next() {
		var item models.BacklogItem
		var game models.Game
		if scanErr := rows.Scan(
			&item.ID, &item.UserID, &item.GameID, &item.Status, &item.UpdatedAt,
			&game.ID, &game.Title, &game.Slug, &game.CoverURL, pq.Array(&game.Platforms),
			&game.CreatedBy, &game.CoverKey, &game.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan backlog row: %w", scanErr)
		}
		item.Game = &game
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during backlog rows iteration: %w", err)
	}
	return items, nil
}

func (r *postgresBacklogRepository) Delete(ctx context.Context, userID, gameID int) error {
	query := `DELETE FROM backlog_items WHERE user_id = $1 AND game_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, gameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBacklogItemNotFound)
}

func (r *postgresBacklogRepository) handleBacklogError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "backlog_items_game_id_fkey":
			return ErrBacklogGameInvalid
		case "backlog_items_user_id_fkey":
			return ErrBacklogProfileInvalid
		}
	}
	return err
}

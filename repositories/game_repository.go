package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/friendsleague/server/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameSlugConflict = errors.New("game slug already exists")
	ErrGameInUse        = errors.New("game is referenced by competitions or backlogs")
)

type ListGamesFilter struct {
	TitleSearch string
	Limit       int
	Offset      int
}

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	GetBySlug(ctx context.Context, slug string) (*models.Game, error)
	List(ctx context.Context, filter ListGamesFilter) ([]models.Game, error)
	UpdateCoverKey(ctx context.Context, gameID int, coverKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, title, slug, cover_url, platforms, created_by, cover_key, created_at`

func (r *postgresGameRepository) scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(
		&g.ID, &g.Title, &g.Slug, &g.CoverURL, pq.Array(&g.Platforms),
		&g.CreatedBy, &g.CoverKey, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (title, slug, cover_url, platforms, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.Title, game.Slug, game.CoverURL, pq.Array(game.Platforms), game.CreatedBy,
	).Scan(&game.ID, &game.CreatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return r.scanGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) GetBySlug(ctx context.Context, slug string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE slug = $1`
	return r.scanGame(r.db.QueryRowContext(ctx, query, slug))
}

func (r *postgresGameRepository) List(ctx context.Context, filter ListGamesFilter) ([]models.Game, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + gameColumns + ` FROM games`)

	args := []interface{}{}
	placeholderIndex := 1

	if filter.TitleSearch != "" {
		queryBuilder.WriteString(" WHERE title ILIKE $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, "%"+filter.TitleSearch+"%")
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, filter.Limit)
		placeholderIndex++
	}
	if filter.Offset > 0 {
		queryBuilder.WriteString(" OFFSET $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, scanErr := r.scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) UpdateCoverKey(ctx context.Context, gameID int, coverKey *string) error {
	query := `UPDATE games SET cover_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, coverKey, gameID)
	if err != nil {
		return fmt.Errorf("failed to update game cover key: %w", err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM games WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "games_slug_key" {
				return ErrGameSlugConflict
			}
		case "23503":
			return ErrGameInUse
		}
	}
	return err
}

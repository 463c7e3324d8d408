package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/friendsleague/server/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchCompetitionInvalid = errors.New("match competition conflict or invalid")
	ErrMatchPlayerInvalid      = errors.New("match player conflict or invalid")
	ErrMatchWinnerInvalid      = errors.New("match winner conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByCompetition(ctx context.Context, competitionID int, status *models.MatchStatus) ([]models.Match, error)
	// UpdateResult records scores, winner, and the finish timestamp for an
	// already existing match (the re-report / complete-scheduled path).
	UpdateResult(ctx context.Context, id int, score1, score2 int, winnerID *int, matchDate time.Time) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, competition_id, player1_id, player2_id, score1, score2, status, match_date, winner_id, created_at`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.CompetitionID, &m.Player1ID, &m.Player2ID,
		&m.Score1, &m.Score2, &m.Status, &m.MatchDate, &m.WinnerID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(competition_id, player1_id, player2_id, score1, score2, status, match_date, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.CompetitionID, match.Player1ID, match.Player2ID,
		match.Score1, match.Score2, match.Status, match.MatchDate, match.WinnerID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByCompetition(ctx context.Context, competitionID int, statusFilter *models.MatchStatus) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE competition_id = $1`)

	args := []interface{}{competitionID}
	placeholderIndex := 2

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id int, score1, score2 int, winnerID *int, matchDate time.Time) error {
	query := `
		UPDATE matches
		SET score1 = $1, score2 = $2, status = $3, match_date = $4, winner_id = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		score1, score2, models.MatchFinished, matchDate, winnerID, id,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM matches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "matches_competition_id_fkey":
			return ErrMatchCompetitionInvalid
		case "matches_player1_id_fkey", "matches_player2_id_fkey":
			return ErrMatchPlayerInvalid
		case "matches_winner_id_fkey":
			return ErrMatchWinnerInvalid
		}
	}
	return err
}

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
	ErrCompetitionNotFound       = errors.New("competition not found")
	ErrCompetitionInvalidGame    = errors.New("invalid game reference")
	ErrCompetitionInvalidOrg     = errors.New("invalid organizer reference")
	ErrCompetitionInUse          = errors.New("competition is in use (participants/matches exist)")
	ErrCompetitionWinnerInvalid  = errors.New("competition winner conflict or invalid")
	ErrCompetitionNotOwnedOrGone = errors.New("competition not found or not owned by caller")
)

type ListCompetitionsFilter struct {
	OrganizerID *int
	GameID      *int
	Status      *models.CompetitionStatus
	Limit       int
	Offset      int
}

type CompetitionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, competition *models.Competition) error
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error
	// Finish flips the competition to finished and fixes the winner in one
	// statement. The organizer_id predicate mirrors the row-level ownership
	// rule: zero affected rows means the row is gone or owned by someone else.
	Finish(ctx context.Context, exec SQLExecutor, id, organizerID int, winnerID *int) error
	DeleteByOrganizer(ctx context.Context, id, organizerID int) error
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const competitionColumns = `id, name, game_id, format, status, organizer_id, winner_id, created_at`

func (r *postgresCompetitionRepository) scanCompetition(rowScanner interface{ Scan(...interface{}) error }) (*models.Competition, error) {
	var c models.Competition
	err := rowScanner.Scan(
		&c.ID, &c.Name, &c.GameID, &c.Format, &c.Status,
		&c.OrganizerID, &c.WinnerID, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresCompetitionRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Competition) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO competitions (name, game_id, format, status, organizer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		c.Name, c.GameID, c.Format, c.Status, c.OrganizerID,
	).Scan(&c.ID, &c.CreatedAt)

	return r.handleCompetitionError(err)
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1`
	return r.scanCompetition(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresCompetitionRepository) List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.GameID != nil {
		query += fmt.Sprintf(" AND game_id = $%d", argID)
		args = append(args, *filter.GameID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitions := make([]models.Competition, 0)
	for rows.Next() {
		c, scanErr := r.scanCompetition(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		competitions = append(competitions, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return competitions, nil
}

func (r *postgresCompetitionRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE competitions SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) Finish(ctx context.Context, exec SQLExecutor, id, organizerID int, winnerID *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE competitions
		SET status = $1, winner_id = $2
		WHERE id = $3 AND organizer_id = $4`
	result, err := executor.ExecContext(ctx, query, models.CompetitionFinished, winnerID, id, organizerID)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotOwnedOrGone)
}

func (r *postgresCompetitionRepository) DeleteByOrganizer(ctx context.Context, id, organizerID int) error {
	query := `DELETE FROM competitions WHERE id = $1 AND organizer_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, organizerID)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotOwnedOrGone)
}

func (r *postgresCompetitionRepository) handleCompetitionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "competitions_game_id_fkey":
			return ErrCompetitionInvalidGame
		case "competitions_organizer_id_fkey":
			return ErrCompetitionInvalidOrg
		case "competitions_winner_id_fkey":
			return ErrCompetitionWinnerInvalid
		default:
			return ErrCompetitionInUse
		}
	}
	return err
}

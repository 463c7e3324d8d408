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
	ErrParticipantNotFound        = errors.New("participant registration not found")
	ErrParticipantConflict        = errors.New("user is already registered for this competition")
	ErrParticipantProfileInvalid  = errors.New("participant profile conflict or invalid")
	ErrParticipantCompetitionGone = errors.New("participant competition conflict or invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.Participant) error
	BatchCreate(ctx context.Context, exec SQLExecutor, competitionID int, userIDs []int) error
	// ListByCompetition joins the display profile the UI needs.
	ListByCompetition(ctx context.Context, competitionID int) ([]models.Participant, error)
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO competition_participants (competition_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, p.CompetitionID, p.UserID).Scan(&p.ID, &p.CreatedAt)
	return r.handleParticipantError(err)
}

func (r *postgresParticipantRepository) BatchCreate(ctx context.Context, exec SQLExecutor, competitionID int, userIDs []int) error {
	if len(userIDs) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO competition_participants (competition_id, user_id)
		SELECT $1, unnest($2::int[])`

	_, err := executor.ExecContext(ctx, query, competitionID, pq.Array(userIDs))
	if err != nil {
		return fmt.Errorf("failed to batch create participants for competition %d: %w", competitionID, r.handleParticipantError(err))
	}
	return nil
}

func (r *postgresParticipantRepository) ListByCompetition(ctx context.Context, competitionID int) ([]models.Participant, error) {
	query := `
		SELECT cp.id, cp.competition_id, cp.user_id, cp.created_at,
		       p.id, p.username, p.avatar_key, p.created_at
		FROM competition_participants cp
		JOIN profiles p ON p.id = cp.user_id
		WHERE cp.competition_id = $1
		ORDER BY cp.id ASC`

	rows, err := r.db.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var part models.Participant
		var profile models.Profile
		if scanErr := rows.Scan(
			&part.ID, &part.CompetitionID, &part.UserID, &part.CreatedAt,
			&profile.ID, &profile.Username, &profile.AvatarKey, &profile.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		part.Profile = &profile
		participants = append(participants, part)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM competition_participants WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) handleParticipantError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrParticipantConflict
		case "23503":
			switch pqErr.Constraint {
			case "competition_participants_user_id_fkey":
				return ErrParticipantProfileInvalid
			case "competition_participants_competition_id_fkey":
				return ErrParticipantCompetitionGone
			}
		}
	}
	return err
}

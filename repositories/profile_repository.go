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
	ErrProfileNotFound         = errors.New("profile not found")
	ErrProfileEmailConflict    = errors.New("email is already in use")
	ErrProfileUsernameConflict = errors.New("username is already in use")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.Profile, error)
	UpdateUsername(ctx context.Context, id int, username string) error
	UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

const profileColumns = `id, username, email, password_hash, avatar_key, created_at`

func (r *postgresProfileRepository) scanProfile(rowScanner interface{ Scan(...interface{}) error }) (*models.Profile, error) {
	var p models.Profile
	err := rowScanner.Scan(&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.AvatarKey, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		profile.Username, profile.Email, profile.PasswordHash,
	).Scan(&profile.ID, &profile.CreatedAt)

	return r.handleProfileError(err)
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY username ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()
	return r.collectProfiles(rows)
}

func (r *postgresProfileRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Profile, error) {
	if len(ids) == 0 {
		return []models.Profile{}, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles by ids: %w", err)
	}
	defer rows.Close()
	return r.collectProfiles(rows)
}

func (r *postgresProfileRepository) collectProfiles(rows *sql.Rows) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0)
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during profile rows iteration: %w", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepository) UpdateUsername(ctx context.Context, id int, username string) error {
	query := `UPDATE profiles SET username = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, username, id)
	if err != nil {
		return r.handleProfileError(err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	query := `UPDATE profiles SET avatar_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, id)
	if err != nil {
		return fmt.Errorf("failed to update profile avatar key: %w", err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) handleProfileError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "profiles_email_key":
			return ErrProfileEmailConflict
		case "profiles_username_key":
			return ErrProfileUsernameConflict
		}
	}
	return err
}

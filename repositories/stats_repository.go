package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/friendsleague/server/models"
)

var ErrPlayerStatsNotFound = errors.New("player stats not found")

// StatsRepository reads ranking aggregates. player_stats is a view kept by the
// database; titles come straight from finished competitions.
type StatsRepository interface {
	GetPlayerStats(ctx context.Context, userID int) (*models.PlayerStats, error)
	TitlesLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) GetPlayerStats(ctx context.Context, userID int) (*models.PlayerStats, error) {
	query := `
		SELECT user_id, wins, losses, total_matches
		FROM player_stats
		WHERE user_id = $1`

	var s models.PlayerStats
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.UserID, &s.Wins, &s.Losses, &s.TotalMatches)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatsNotFound
		}
		return nil, fmt.Errorf("failed to scan player stats for user %d: %w", userID, err)
	}
	return &s, nil
}

func (r *postgresStatsRepository) TitlesLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT winner_id, COUNT(*) AS titles
		FROM competitions
		WHERE status = $1 AND winner_id IS NOT NULL
		GROUP BY winner_id
		ORDER BY titles DESC, winner_id ASC`

	args := []interface{}{models.CompetitionFinished}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0)
	for rows.Next() {
		var e models.LeaderboardEntry
		if scanErr := rows.Scan(&e.UserID, &e.Titles); scanErr != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", scanErr)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during leaderboard rows iteration: %w", err)
	}
	return entries, nil
}

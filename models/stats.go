package models

// PlayerStats mirrors the player_stats aggregate, which is maintained by the
// database. The server only reads it.
type PlayerStats struct {
	UserID       int `json:"user_id" db:"user_id"`
	Wins         int `json:"wins" db:"wins"`
	Losses       int `json:"losses" db:"losses"`
	TotalMatches int `json:"total_matches" db:"total_matches"`
}

// LeaderboardEntry is one row of the global titles ranking: how many finished
// competitions a player has won.
type LeaderboardEntry struct {
	UserID int `json:"user_id" db:"user_id"`
	Titles int `json:"titles" db:"titles"`

	Profile *Profile `json:"profile,omitempty" db:"-"`
}

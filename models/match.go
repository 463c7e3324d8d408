package models

import "time"

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchFinished  MatchStatus = "finished"
)

type Match struct {
	ID            int         `json:"id" db:"id"`
	CompetitionID int         `json:"competition_id" db:"competition_id"`
	Player1ID     int         `json:"player1_id" db:"player1_id"`
	Player2ID     int         `json:"player2_id" db:"player2_id"`
	Score1        int         `json:"score1" db:"score1"`
	Score2        int         `json:"score2" db:"score2"`
	Status        MatchStatus `json:"status" db:"status"`
	MatchDate     *time.Time  `json:"match_date,omitempty" db:"match_date"`
	WinnerID      *int        `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`

	Player1 *Profile `json:"player1,omitempty" db:"-"`
	Player2 *Profile `json:"player2,omitempty" db:"-"`
}

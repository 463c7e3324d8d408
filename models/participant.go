package models

import "time"

type Participant struct {
	ID            int       `json:"id" db:"id"`
	CompetitionID int       `json:"competition_id" db:"competition_id"`
	UserID        int       `json:"user_id" db:"user_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Profile *Profile `json:"profile,omitempty" db:"-"`
}

package models

import "time"

// BacklogStatus представляет статусы записи бэклога, соответствующие ENUM в БД.
type BacklogStatus string

const (
	BacklogPlanned   BacklogStatus = "planned"
	BacklogPlaying   BacklogStatus = "playing"
	BacklogCompleted BacklogStatus = "completed"
	BacklogDropped   BacklogStatus = "dropped"
)

// BacklogItem is unique per (user_id, game_id); writes go through an upsert.
type BacklogItem struct {
	ID        int           `json:"id" db:"id"`
	UserID    int           `json:"user_id" db:"user_id"`
	GameID    int           `json:"game_id" db:"game_id"`
	Status    BacklogStatus `json:"status" db:"status"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`

	Game *Game `json:"game,omitempty" db:"-"`
}

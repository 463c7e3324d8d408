package models

import "time"

type CompetitionStatus string

const (
	CompetitionDraft    CompetitionStatus = "draft"
	CompetitionActive   CompetitionStatus = "active"
	CompetitionFinished CompetitionStatus = "finished"
)

// CompetitionFormat keeps the wire values the league has always used
// (Portuguese, as in the original schema).
type CompetitionFormat string

const (
	Format1v1        CompetitionFormat = "1v1"
	FormatTeams      CompetitionFormat = "times"
	FormatRoundRobin CompetitionFormat = "pontos_corridos"
	FormatCumulative CompetitionFormat = "pontos_corridos_cumulative"
	FormatBrackets   CompetitionFormat = "chaves"
)

func (f CompetitionFormat) Valid() bool {
	switch f {
	case Format1v1, FormatTeams, FormatRoundRobin, FormatCumulative, FormatBrackets:
		return true
	}
	return false
}

type Competition struct {
	ID          int               `json:"id" db:"id"`
	Name        string            `json:"name" db:"name"`
	GameID      int               `json:"game_id" db:"game_id"`
	Format      CompetitionFormat `json:"format" db:"format"`
	Status      CompetitionStatus `json:"status" db:"status"`
	OrganizerID int               `json:"organizer_id" db:"organizer_id"`
	WinnerID    *int              `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Game         *Game         `json:"game,omitempty" db:"-"`
	Organizer    *Profile      `json:"organizer,omitempty" db:"-"`
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}

// Package standings derives a competition ranking from its reported matches.
// The computation is pure: it never touches the database and never mutates
// its inputs, so callers recompute it on every read instead of caching.
package standings

import (
	"sort"

	"github.com/friendsleague/server/models"
)

// RoundWinsPerPoint converts accumulated round wins into league points for the
// cumulative format: 10 round wins = 1 point.
const RoundWinsPerPoint = 10

// CumulativeWinThreshold is the number of points (i.e. 20 round wins) a leader
// of a cumulative competition is expected to reach before it is finished.
// League-specific; finishing below it only triggers a confirmation, not a block.
const CumulativeWinThreshold = 2

// Row is one participant's aggregate. TotalRoundWins is only meaningful for
// the cumulative format and stays zero otherwise.
type Row struct {
	UserID        int    `json:"user_id"`
	Username      string `json:"username,omitempty"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	Points        int    `json:"points"`
	TotalRoundWins int   `json:"total_round_wins,omitempty"`
}

// Calculate ranks participants best-first. Only finished matches count; a
// scheduled match contributes nothing regardless of its score fields. A match
// referencing a user absent from the participant list is skipped entirely, so
// neither side's counters move.
func Calculate(participants []models.Participant, matches []models.Match, format models.CompetitionFormat) []Row {
	rows := make([]*Row, len(participants))
	index := make(map[int]*Row, len(participants))
	for i, p := range participants {
		row := &Row{UserID: p.UserID}
		if p.Profile != nil {
			row.Username = p.Profile.Username
		}
		rows[i] = row
		index[p.UserID] = row
	}

	cumulative := format == models.FormatCumulative

	for _, m := range matches {
		if m.Status != models.MatchFinished {
			continue
		}
		side1 := index[m.Player1ID]
		side2 := index[m.Player2ID]
		if side1 == nil || side2 == nil {
			continue
		}
		side1.Played++
		side2.Played++

		if cumulative {
			// Scores are round-win counts, accumulated directly; no
			// per-match win/loss/draw classification.
			side1.TotalRoundWins += m.Score1
			side2.TotalRoundWins += m.Score2
			continue
		}

		switch {
		case m.Score1 > m.Score2:
			side1.Wins++
			side1.Points += 3
			side2.Losses++
		case m.Score2 > m.Score1:
			side2.Wins++
			side2.Points += 3
			side1.Losses++
		default:
			side1.Draws++
			side2.Draws++
			side1.Points++
			side2.Points++
		}
	}

	if cumulative {
		for _, row := range rows {
			row.Points = row.TotalRoundWins / RoundWinsPerPoint
		}
	}

	result := make([]Row, len(rows))
	for i, row := range rows {
		result[i] = *row
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Points != result[j].Points {
			return result[i].Points > result[j].Points
		}
		if cumulative {
			if result[i].TotalRoundWins != result[j].TotalRoundWins {
				return result[i].TotalRoundWins > result[j].TotalRoundWins
			}
		} else if result[i].Wins != result[j].Wins {
			return result[i].Wins > result[j].Wins
		}
		// Tertiary key so the order never depends on fetch order.
		return result[i].UserID < result[j].UserID
	})

	return result
}

// Leader returns the top row, or nil for an empty ranking.
func Leader(rows []Row) *Row {
	if len(rows) == 0 {
		return nil
	}
	return &rows[0]
}

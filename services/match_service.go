package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/friendsleague/server/live"
	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/repositories"
	"github.com/friendsleague/server/storage"
)

type ReportResultInput struct {
	// MatchID points at an existing scheduled match; nil records a fresh
	// result in one step.
	MatchID   *int `json:"match_id"`
	Player1ID int  `json:"player1_id"`
	Player2ID int  `json:"player2_id"`
	Score1    int  `json:"score1"`
	Score2    int  `json:"score2"`
}

type ScheduleMatchInput struct {
	Player1ID int        `json:"player1_id"`
	Player2ID int        `json:"player2_id"`
	MatchDate *time.Time `json:"match_date"`
}

type MatchService interface {
	ReportResult(ctx context.Context, competitionID, reporterID int, input ReportResultInput) (*models.Match, error)
	Schedule(ctx context.Context, competitionID, userID int, input ScheduleMatchInput) (*models.Match, error)
	ListByCompetition(ctx context.Context, competitionID int, status *models.MatchStatus) ([]models.Match, error)
	Delete(ctx context.Context, matchID, userID int) error
}

type matchService struct {
	matchRepo       repositories.MatchRepository
	competitionRepo repositories.CompetitionRepository
	profileRepo     repositories.ProfileRepository
	uploader        storage.FileUploader
	broadcaster     Broadcaster
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	competitionRepo repositories.CompetitionRepository,
	profileRepo repositories.ProfileRepository,
	uploader storage.FileUploader,
	broadcaster Broadcaster,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		competitionRepo: competitionRepo,
		profileRepo:     profileRepo,
		uploader:        uploader,
		broadcaster:     broadcaster,
	}
}

// deriveWinner maps a score pair to a winner, nil meaning a draw.
func deriveWinner(player1ID, player2ID, score1, score2 int) *int {
	switch {
	case score1 > score2:
		return &player1ID
	case score2 > score1:
		return &player2ID
	default:
		return nil
	}
}

func (s *matchService) ReportResult(ctx context.Context, competitionID, reporterID int, input ReportResultInput) (*models.Match, error) {
	if input.Score1 < 0 || input.Score2 < 0 {
		return nil, ErrMatchNegativeScore
	}

	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition %d: %w", competitionID, err)
	}
	if competition.Status == models.CompetitionFinished {
		return nil, ErrCompetitionAlreadyFinished
	}

	now := time.Now().UTC()

	var match *models.Match
	if input.MatchID != nil {
		match, err = s.matchRepo.GetByID(ctx, *input.MatchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return nil, ErrMatchNotFound
			}
			return nil, fmt.Errorf("failed to get match %d: %w", *input.MatchID, err)
		}
		if match.CompetitionID != competitionID {
			return nil, ErrMatchNotFound
		}

		winnerID := deriveWinner(match.Player1ID, match.Player2ID, input.Score1, input.Score2)
		if err := s.matchRepo.UpdateResult(ctx, match.ID, input.Score1, input.Score2, winnerID, now); err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return nil, ErrMatchNotFound
			}
			return nil, fmt.Errorf("failed to record result for match %d: %w", match.ID, err)
		}

		match.Score1 = input.Score1
		match.Score2 = input.Score2
		match.Status = models.MatchFinished
		match.MatchDate = &now
		match.WinnerID = winnerID
	} else {
		if input.Player1ID == input.Player2ID {
			return nil, ErrMatchSamePlayer
		}

		match = &models.Match{
			CompetitionID: competitionID,
			Player1ID:     input.Player1ID,
			Player2ID:     input.Player2ID,
			Score1:        input.Score1,
			Score2:        input.Score2,
			Status:        models.MatchFinished,
			MatchDate:     &now,
			WinnerID:      deriveWinner(input.Player1ID, input.Player2ID, input.Score1, input.Score2),
		}
		if err := s.matchRepo.Create(ctx, nil, match); err != nil {
			if errors.Is(err, repositories.ErrMatchPlayerInvalid) {
				return nil, ErrProfileNotFound
			}
			return nil, fmt.Errorf("failed to create match: %w", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(live.CompetitionRoom(competitionID), live.Message{
			Type:    live.EventMatchReported,
			Payload: match,
			RoomID:  live.CompetitionRoom(competitionID),
		})
	}

	return match, nil
}

func (s *matchService) Schedule(ctx context.Context, competitionID, userID int, input ScheduleMatchInput) (*models.Match, error) {
	if input.Player1ID == input.Player2ID {
		return nil, ErrMatchSamePlayer
	}

	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition %d: %w", competitionID, err)
	}
	if competition.Status == models.CompetitionFinished {
		return nil, ErrCompetitionAlreadyFinished
	}

	match := &models.Match{
		CompetitionID: competitionID,
		Player1ID:     input.Player1ID,
		Player2ID:     input.Player2ID,
		Status:        models.MatchScheduled,
		MatchDate:     input.MatchDate,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchPlayerInvalid) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to schedule match: %w", err)
	}
	return match, nil
}

// ListByCompetition attaches player profiles in one extra query instead of a
// per-match lookup.
func (s *matchService) ListByCompetition(ctx context.Context, competitionID int, status *models.MatchStatus) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByCompetition(ctx, competitionID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for competition %d: %w", competitionID, err)
	}
	if len(matches) == 0 {
		return matches, nil
	}

	idSet := make(map[int]bool)
	for _, m := range matches {
		idSet[m.Player1ID] = true
		idSet[m.Player2ID] = true
	}
	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	profiles, err := s.profileRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load match player profiles: %w", err)
	}
	byID := make(map[int]*models.Profile, len(profiles))
	for i := range profiles {
		populateProfileAvatarURL(&profiles[i], s.uploader)
		byID[profiles[i].ID] = &profiles[i]
	}
	for i := range matches {
		matches[i].Player1 = byID[matches[i].Player1ID]
		matches[i].Player2 = byID[matches[i].Player2ID]
	}
	return matches, nil
}

func (s *matchService) Delete(ctx context.Context, matchID, userID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to get match %d: %w", matchID, err)
	}

	competition, err := s.competitionRepo.GetByID(ctx, match.CompetitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return ErrCompetitionNotFound
		}
		return fmt.Errorf("failed to get competition %d: %w", match.CompetitionID, err)
	}
	if competition.OrganizerID != userID {
		return ErrForbiddenOperation
	}
	if competition.Status == models.CompetitionFinished {
		return ErrCompetitionAlreadyFinished
	}

	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	return nil
}

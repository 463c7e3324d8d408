package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/friendsleague/server/live"
	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/repositories"
	"github.com/friendsleague/server/standings"
	"github.com/friendsleague/server/storage"
	"golang.org/x/sync/errgroup"
)

// Broadcaster is the part of live.Hub the services need. Nil is allowed and
// means "no live updates".
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type CreateCompetitionInput struct {
	Name           string                   `json:"name"`
	GameID         int                      `json:"game_id"`
	Format         models.CompetitionFormat `json:"format"`
	ParticipantIDs []int                    `json:"participant_ids"`
}

// FinishResult carries the final ranking back to the caller alongside the
// updated competition.
type FinishResult struct {
	Competition *models.Competition `json:"competition"`
	Standings   []standings.Row     `json:"standings"`
}

type CompetitionService interface {
	Create(ctx context.Context, organizerID int, input CreateCompetitionInput) (*models.Competition, error)
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	List(ctx context.Context, filter repositories.ListCompetitionsFilter) ([]models.Competition, error)
	Standings(ctx context.Context, id int) ([]standings.Row, error)
	Activate(ctx context.Context, id, userID int) (*models.Competition, error)
	// Finish closes the competition and crowns the current leader. For the
	// cumulative format a leader below the win threshold is only accepted
	// when confirm is set.
	Finish(ctx context.Context, id, userID int, confirm bool) (*FinishResult, error)
	Delete(ctx context.Context, id, userID int) error
}

type competitionService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	gameRepo        repositories.GameRepository
	profileRepo     repositories.ProfileRepository
	uploader        storage.FileUploader
	broadcaster     Broadcaster
}

func NewCompetitionService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	profileRepo repositories.ProfileRepository,
	uploader storage.FileUploader,
	broadcaster Broadcaster,
) CompetitionService {
	return &competitionService{
		db:              db,
		competitionRepo: competitionRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		gameRepo:        gameRepo,
		profileRepo:     profileRepo,
		uploader:        uploader,
		broadcaster:     broadcaster,
	}
}

func (s *competitionService) Create(ctx context.Context, organizerID int, input CreateCompetitionInput) (*models.Competition, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrCompetitionNameRequired
	}
	if !input.Format.Valid() {
		return nil, ErrCompetitionInvalidFormat
	}

	// Организатор всегда участвует сам.
	participantIDs := make([]int, 0, len(input.ParticipantIDs)+1)
	seen := map[int]bool{organizerID: true}
	participantIDs = append(participantIDs, organizerID)
	for _, id := range input.ParticipantIDs {
		if !seen[id] {
			seen[id] = true
			participantIDs = append(participantIDs, id)
		}
	}

	competition := &models.Competition{
		Name:        input.Name,
		GameID:      input.GameID,
		Format:      input.Format,
		Status:      models.CompetitionDraft,
		OrganizerID: organizerID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.competitionRepo.Create(ctx, tx, competition); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCompetitionInvalidGame):
			return nil, ErrGameNotFound
		case errors.Is(err, repositories.ErrCompetitionInvalidOrg):
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}

	if err := s.participantRepo.BatchCreate(ctx, tx, competition.ID, participantIDs); err != nil {
		if errors.Is(err, repositories.ErrParticipantProfileInvalid) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to register participants: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit competition creation: %w", err)
	}

	return competition, nil
}

// GetByID assembles the full competition detail. The related entities are
// independent reads, fetched concurrently.
func (s *competitionService) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition %d: %w", id, err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		game, gameErr := s.gameRepo.GetByID(gCtx, competition.GameID)
		if gameErr != nil {
			if errors.Is(gameErr, repositories.ErrGameNotFound) {
				return nil
			}
			return gameErr
		}
		competition.Game = game
		return nil
	})

	g.Go(func() error {
		organizer, orgErr := s.profileRepo.GetByID(gCtx, competition.OrganizerID)
		if orgErr != nil {
			if errors.Is(orgErr, repositories.ErrProfileNotFound) {
				return nil
			}
			return orgErr
		}
		populateProfileAvatarURL(organizer, s.uploader)
		competition.Organizer = organizer
		return nil
	})

	g.Go(func() error {
		participants, pErr := s.participantRepo.ListByCompetition(gCtx, id)
		if pErr != nil {
			return pErr
		}
		populateParticipantAvatars(participants, s.uploader)
		competition.Participants = participants
		return nil
	})

	g.Go(func() error {
		matches, mErr := s.matchRepo.ListByCompetition(gCtx, id, nil)
		if mErr != nil {
			return mErr
		}
		competition.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load competition %d details: %w", id, err)
	}
	return competition, nil
}

func (s *competitionService) List(ctx context.Context, filter repositories.ListCompetitionsFilter) ([]models.Competition, error) {
	competitions, err := s.competitionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return competitions, nil
}

func (s *competitionService) Standings(ctx context.Context, id int) ([]standings.Row, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition %d: %w", id, err)
	}
	return s.computeStandings(ctx, competition)
}

func (s *competitionService) computeStandings(ctx context.Context, competition *models.Competition) ([]standings.Row, error) {
	var (
		participants []models.Participant
		matches      []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var pErr error
		participants, pErr = s.participantRepo.ListByCompetition(gCtx, competition.ID)
		return pErr
	})
	g.Go(func() error {
		var mErr error
		matches, mErr = s.matchRepo.ListByCompetition(gCtx, competition.ID, nil)
		return mErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings inputs for competition %d: %w", competition.ID, err)
	}

	return standings.Calculate(participants, matches, competition.Format), nil
}

func (s *competitionService) Activate(ctx context.Context, id, userID int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition %d: %w", id, err)
	}
	if competition.OrganizerID != userID {
		return nil, ErrForbiddenOperation
	}
	if competition.Status == models.CompetitionFinished {
		return nil, ErrCompetitionAlreadyFinished
	}
	if competition.Status == models.CompetitionActive {
		return competition, nil
	}

	if err := s.competitionRepo.UpdateStatus(ctx, nil, id, models.CompetitionActive); err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to activate competition %d: %w", id, err)
	}
	competition.Status = models.CompetitionActive
	return competition, nil
}

func (s *competitionService) Finish(ctx context.Context, id, userID int, confirm bool) (*FinishResult, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition %d: %w", id, err)
	}
	if competition.Status == models.CompetitionFinished {
		return nil, ErrCompetitionAlreadyFinished
	}
	if competition.OrganizerID != userID {
		return nil, ErrForbiddenOperation
	}

	rows, err := s.computeStandings(ctx, competition)
	if err != nil {
		return nil, err
	}

	var winnerID *int
	if leader := standings.Leader(rows); leader != nil {
		if competition.Format == models.FormatCumulative &&
			leader.Points < standings.CumulativeWinThreshold && !confirm {
			return nil, ErrFinishConfirmationRequired
		}
		winnerID = &leader.UserID
	}

	if err := s.competitionRepo.Finish(ctx, nil, id, userID, winnerID); err != nil {
		// The ownership check above already passed, so zero affected rows
		// here means the row changed hands or vanished mid-flight.
		if errors.Is(err, repositories.ErrCompetitionNotOwnedOrGone) {
			return nil, ErrForbiddenOperation
		}
		return nil, fmt.Errorf("failed to finish competition %d: %w", id, err)
	}

	competition.Status = models.CompetitionFinished
	competition.WinnerID = winnerID

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(live.CompetitionRoom(id), live.Message{
			Type:    live.EventCompetitionFinished,
			Payload: map[string]interface{}{"competition": competition, "standings": rows},
			RoomID:  live.CompetitionRoom(id),
		})
	}

	return &FinishResult{Competition: competition, Standings: rows}, nil
}

func (s *competitionService) Delete(ctx context.Context, id, userID int) error {
	err := s.competitionRepo.DeleteByOrganizer(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotOwnedOrGone) {
			return ErrForbiddenOperation
		}
		return fmt.Errorf("failed to delete competition %d: %w", id, err)
	}
	return nil
}

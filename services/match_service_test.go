package services

import (
	"context"
	"testing"

	"github.com/friendsleague/server/live"
	"github.com/friendsleague/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchServiceFixture struct {
	service         MatchService
	matchRepo       *fakeMatchRepo
	competitionRepo *fakeCompetitionRepo
	profileRepo     *fakeProfileRepo
	broadcaster     *fakeBroadcaster
}

func newMatchServiceFixture() *matchServiceFixture {
	f := &matchServiceFixture{
		matchRepo:       newFakeMatchRepo(),
		competitionRepo: newFakeCompetitionRepo(),
		profileRepo:     newFakeProfileRepo(),
		broadcaster:     &fakeBroadcaster{},
	}
	f.service = NewMatchService(f.matchRepo, f.competitionRepo, f.profileRepo, &fakeUploader{}, f.broadcaster)
	return f
}

func (f *matchServiceFixture) seedCompetition(status models.CompetitionStatus) *models.Competition {
	return f.competitionRepo.add(models.Competition{
		Name:        "Liga",
		Format:      models.Format1v1,
		Status:      status,
		OrganizerID: 10,
	})
}

func TestReportResultSamePlayerRejectedBeforeWrite(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionActive)

	_, err := f.service.ReportResult(context.Background(), c.ID, 10, ReportResultInput{
		Player1ID: 7, Player2ID: 7, Score1: 1, Score2: 0,
	})

	assert.ErrorIs(t, err, ErrMatchSamePlayer)
	assert.Zero(t, f.matchRepo.creates)
	assert.Zero(t, f.matchRepo.updates)
}

func TestReportResultNegativeScoreRejected(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionActive)

	_, err := f.service.ReportResult(context.Background(), c.ID, 10, ReportResultInput{
		Player1ID: 7, Player2ID: 8, Score1: -1, Score2: 0,
	})

	assert.ErrorIs(t, err, ErrMatchNegativeScore)
	assert.Zero(t, f.matchRepo.creates)
}

func TestReportResultWinnerDerivation(t *testing.T) {
	tests := []struct {
		name   string
		score1 int
		score2 int
		winner *int
	}{
		{"player1 wins", 3, 1, intPtr(7)},
		{"player2 wins", 1, 3, intPtr(8)},
		{"draw has no winner", 2, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMatchServiceFixture()
			c := f.seedCompetition(models.CompetitionActive)

			match, err := f.service.ReportResult(context.Background(), c.ID, 10, ReportResultInput{
				Player1ID: 7, Player2ID: 8, Score1: tt.score1, Score2: tt.score2,
			})
			require.NoError(t, err)

			assert.Equal(t, models.MatchFinished, match.Status)
			require.NotNil(t, match.MatchDate)
			if tt.winner == nil {
				assert.Nil(t, match.WinnerID)
			} else {
				require.NotNil(t, match.WinnerID)
				assert.Equal(t, *tt.winner, *match.WinnerID)
			}
		})
	}
}

func TestReportResultCompletesScheduledMatch(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionActive)
	scheduled := f.matchRepo.add(models.Match{
		CompetitionID: c.ID,
		Player1ID:     7, Player2ID: 8,
		Status: models.MatchScheduled,
	})

	match, err := f.service.ReportResult(context.Background(), c.ID, 10, ReportResultInput{
		MatchID: &scheduled.ID,
		Score1:  4, Score2: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, scheduled.ID, match.ID)
	assert.Equal(t, models.MatchFinished, match.Status)
	require.NotNil(t, match.WinnerID)
	assert.Equal(t, 7, *match.WinnerID)
	assert.Equal(t, 1, f.matchRepo.updates)
	assert.Zero(t, f.matchRepo.creates)
}

func TestReportResultWrongCompetitionMatchID(t *testing.T) {
	f := newMatchServiceFixture()
	c1 := f.seedCompetition(models.CompetitionActive)
	c2 := f.seedCompetition(models.CompetitionActive)
	other := f.matchRepo.add(models.Match{
		CompetitionID: c2.ID,
		Player1ID:     7, Player2ID: 8,
		Status: models.MatchScheduled,
	})

	_, err := f.service.ReportResult(context.Background(), c1.ID, 10, ReportResultInput{
		MatchID: &other.ID,
		Score1:  1, Score2: 0,
	})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestReportResultFinishedCompetitionRejected(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionFinished)

	_, err := f.service.ReportResult(context.Background(), c.ID, 10, ReportResultInput{
		Player1ID: 7, Player2ID: 8, Score1: 1, Score2: 0,
	})
	assert.ErrorIs(t, err, ErrCompetitionAlreadyFinished)
}

func TestReportResultBroadcastsToCompetitionRoom(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionActive)

	_, err := f.service.ReportResult(context.Background(), c.ID, 10, ReportResultInput{
		Player1ID: 7, Player2ID: 8, Score1: 2, Score2: 1,
	})
	require.NoError(t, err)

	require.Len(t, f.broadcaster.rooms, 1)
	assert.Equal(t, live.CompetitionRoom(c.ID), f.broadcaster.rooms[0])
	msg, ok := f.broadcaster.messages[0].(live.Message)
	require.True(t, ok)
	assert.Equal(t, live.EventMatchReported, msg.Type)
}

func TestScheduleCreatesScheduledMatchWithoutScores(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionActive)

	match, err := f.service.Schedule(context.Background(), c.ID, 10, ScheduleMatchInput{
		Player1ID: 7, Player2ID: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, models.MatchScheduled, match.Status)
	assert.Zero(t, match.Score1)
	assert.Zero(t, match.Score2)
	assert.Nil(t, match.WinnerID)
	assert.Empty(t, f.broadcaster.rooms)
}

func TestScheduleSamePlayerRejected(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionActive)

	_, err := f.service.Schedule(context.Background(), c.ID, 10, ScheduleMatchInput{
		Player1ID: 7, Player2ID: 7,
	})
	assert.ErrorIs(t, err, ErrMatchSamePlayer)
}

func TestListByCompetitionAttachesPlayers(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionActive)
	f.profileRepo.add(models.Profile{ID: 7, Username: "ana"})
	f.profileRepo.add(models.Profile{ID: 8, Username: "bia"})
	f.matchRepo.add(models.Match{
		CompetitionID: c.ID,
		Player1ID:     7, Player2ID: 8,
		Status: models.MatchFinished,
	})

	matches, err := f.service.ListByCompetition(context.Background(), c.ID, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].Player1)
	assert.Equal(t, "ana", matches[0].Player1.Username)
	require.NotNil(t, matches[0].Player2)
	assert.Equal(t, "bia", matches[0].Player2.Username)
}

func TestMatchDeleteOrganizerOnly(t *testing.T) {
	f := newMatchServiceFixture()
	c := f.seedCompetition(models.CompetitionActive)
	m := f.matchRepo.add(models.Match{
		CompetitionID: c.ID,
		Player1ID:     7, Player2ID: 8,
		Status: models.MatchScheduled,
	})

	err := f.service.Delete(context.Background(), m.ID, 99)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	err = f.service.Delete(context.Background(), m.ID, 10)
	require.NoError(t, err)
}

func intPtr(v int) *int { return &v }

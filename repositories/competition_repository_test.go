package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/friendsleague/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompetitionRepoMock(t *testing.T) (CompetitionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresCompetitionRepository(db), mock
}

func TestCompetitionFinishZeroRowsMeansNotOwned(t *testing.T) {
	repo, mock := newCompetitionRepoMock(t)

	mock.ExpectExec("UPDATE competitions").
		WithArgs(models.CompetitionFinished, 7, 42, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	winnerID := 7
	err := repo.Finish(context.Background(), nil, 42, 10, &winnerID)

	assert.ErrorIs(t, err, ErrCompetitionNotOwnedOrGone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompetitionFinishSetsStatusAndWinner(t *testing.T) {
	repo, mock := newCompetitionRepoMock(t)

	winnerID := 7
	mock.ExpectExec("UPDATE competitions").
		WithArgs(models.CompetitionFinished, &winnerID, 42, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Finish(context.Background(), nil, 42, 10, &winnerID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompetitionFinishNilWinner(t *testing.T) {
	repo, mock := newCompetitionRepoMock(t)

	mock.ExpectExec("UPDATE competitions").
		WithArgs(models.CompetitionFinished, nil, 42, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Finish(context.Background(), nil, 42, 10, nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompetitionGetByIDNotFound(t *testing.T) {
	repo, mock := newCompetitionRepoMock(t)

	mock.ExpectQuery("SELECT (.+) FROM competitions").
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 404)

	assert.ErrorIs(t, err, ErrCompetitionNotFound)
}

func TestCompetitionDeleteByOrganizerZeroRows(t *testing.T) {
	repo, mock := newCompetitionRepoMock(t)

	mock.ExpectExec("DELETE FROM competitions").
		WithArgs(42, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByOrganizer(context.Background(), 42, 99)

	assert.ErrorIs(t, err, ErrCompetitionNotOwnedOrGone)
}

func TestCompetitionCreateReturnsIDAndTimestamp(t *testing.T) {
	repo, mock := newCompetitionRepoMock(t)

	createdAt := time.Now()
	mock.ExpectQuery("INSERT INTO competitions").
		WithArgs("Liga", 1, models.FormatRoundRobin, models.CompetitionDraft, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, createdAt))

	c := &models.Competition{
		Name:        "Liga",
		GameID:      1,
		Format:      models.FormatRoundRobin,
		Status:      models.CompetitionDraft,
		OrganizerID: 10,
	}
	err := repo.Create(context.Background(), nil, c)

	require.NoError(t, err)
	assert.Equal(t, 5, c.ID)
	assert.Equal(t, createdAt, c.CreatedAt)
}

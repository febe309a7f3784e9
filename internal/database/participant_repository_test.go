package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/soltur/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertParticipants_CommitsAllRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewParticipantRepository(db)

	bookingID := uuid.New()
	participants := []models.Participant{
		{FirstName: "Jan", LastName: "Nowak"},
		{FirstName: "Maria", LastName: "Nowak"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO participants").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO participants").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.InsertParticipants(bookingID, participants)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertParticipants_RollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewParticipantRepository(db)

	bookingID := uuid.New()
	participants := []models.Participant{
		{FirstName: "Jan", LastName: "Nowak"},
		{FirstName: "Maria", LastName: "Nowak"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO participants").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO participants").
		WillReturnError(fmt.Errorf("pq: null value in column \"national_id\""))
	mock.ExpectRollback()

	err := repo.InsertParticipants(bookingID, participants)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Maria")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertParticipants_RejectsEmptyList(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewParticipantRepository(db)

	err := repo.InsertParticipants(uuid.New(), nil)
	assert.Error(t, err)
}

func TestCountByBookingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewParticipantRepository(db)

	bookingID := uuid.New()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByBookingID(bookingID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

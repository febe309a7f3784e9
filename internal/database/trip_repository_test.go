package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/soltur/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func tripColumns() []string {
	return []string{
		"id", "title", "slug", "public_slug", "start_date", "end_date",
		"price_per_seat", "seats_total", "seats_reserved", "is_active",
		"description", "created_at", "updated_at", "deleted_at",
	}
}

func TestGetActiveBySlug_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(tripColumns()).
		AddRow(tripID, "Mazury Summer Cruise", "mazury-2026", nil,
			now, now.Add(7*24*time.Hour), int64(249900), 40, 12, true,
			nil, now, now, nil)

	mock.ExpectQuery("FROM trips").
		WithArgs("mazury-2026").
		WillReturnRows(rows)

	trip, err := repo.GetActiveBySlug("mazury-2026")
	require.NoError(t, err)
	require.NotNil(t, trip)
	assert.Equal(t, tripID, trip.ID)
	assert.Equal(t, 28, trip.AvailableSeats())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveBySlug_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	mock.ExpectQuery("FROM trips").
		WithArgs("does-not-exist").
		WillReturnRows(sqlmock.NewRows(tripColumns()))

	trip, err := repo.GetActiveBySlug("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, trip)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSeats_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New()

	mock.ExpectQuery("UPDATE trips").
		WithArgs(tripID, 3).
		WillReturnRows(sqlmock.NewRows([]string{"seats_reserved"}).AddRow(15))

	ok, err := repo.ReserveSeats(tripID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSeats_NotEnoughSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New()

	// The conditional update matches no row when capacity would be exceeded
	mock.ExpectQuery("UPDATE trips").
		WithArgs(tripID, 50).
		WillReturnRows(sqlmock.NewRows([]string{"seats_reserved"}))

	ok, err := repo.ReserveSeats(tripID, 50)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSeats_RejectsNonPositiveCount(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewTripRepository(db)

	_, err := repo.ReserveSeats(uuid.New(), 0)
	assert.Error(t, err)

	_, err = repo.ReserveSeats(uuid.New(), -2)
	assert.Error(t, err)
}

func TestReleaseSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New()

	mock.ExpectExec("UPDATE trips").
		WithArgs(tripID, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReleaseSeats(tripID, 3)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTrip_RejectsSeatsTotalBelowReserved(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New()
	now := time.Now()
	newTotal := 5

	// The guarded update matches no row when 12 seats are already reserved
	mock.ExpectQuery("UPDATE trips").
		WillReturnRows(sqlmock.NewRows(tripColumns()))
	mock.ExpectQuery("FROM trips").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows(tripColumns()).
			AddRow(tripID, "Mazury Summer Cruise", "mazury-2026", nil,
				now, now.Add(7*24*time.Hour), int64(249900), 40, 12, true,
				nil, now, now, nil))

	trip, err := repo.UpdateTrip(tripID, &models.UpdateTripRequest{SeatsTotal: &newTotal})
	require.ErrorIs(t, err, ErrSeatsBelowReserved)
	assert.Nil(t, trip)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTrip_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New()
	newTotal := 30

	mock.ExpectQuery("UPDATE trips").
		WillReturnRows(sqlmock.NewRows(tripColumns()))
	mock.ExpectQuery("FROM trips").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows(tripColumns()))

	trip, err := repo.UpdateTrip(tripID, &models.UpdateTripRequest{SeatsTotal: &newTotal})
	require.NoError(t, err)
	assert.Nil(t, trip)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateTrip_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New()

	mock.ExpectExec("UPDATE trips").
		WithArgs(tripID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeactivateTrip(tripID)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

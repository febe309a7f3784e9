package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testBookingParams() *CreateBookingParams {
	first := "Jan"
	last := "Nowak"
	return &CreateBookingParams{
		TripID:            uuid.New(),
		ContactFirstName:  &first,
		ContactLastName:   &last,
		ContactEmail:      "jan.nowak@example.com",
		ContactPhone:      "600700800",
		AddressStreet:     "ul. Polna 12",
		AddressCity:       "Warszawa",
		AddressZip:        "00-001",
		ConsentData:       true,
		ConsentTerms:      true,
		ConsentConditions: true,
		Source:            models.BookingSourcePublicPage,
	}
}

func TestGenerateBookingReference(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ref, err := repo.GenerateBookingReference()
	require.NoError(t, err)
	assert.Regexp(t, `^BK-\d{8}-[0-9A-F]{6}$`, ref)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateBookingReference_RetriesOnCollision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ref, err := repo.GenerateBookingReference()
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_ViaProcedure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	bookingID := uuid.New()
	params := testBookingParams()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("create_public_booking").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_ref"}).
			AddRow(bookingID, "BK-20260901-A1B2C3"))

	created, err := repo.CreateBooking(params)
	require.NoError(t, err)
	assert.Equal(t, bookingID, created.ID)
	assert.Equal(t, "BK-20260901-A1B2C3", created.BookingRef)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_FallsBackToInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	bookingID := uuid.New()
	params := testBookingParams()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// Procedure missing on this database
	mock.ExpectQuery("create_public_booking").
		WillReturnError(fmt.Errorf(`pq: function create_public_booking does not exist`))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_ref"}).
			AddRow(bookingID, "BK-20260901-B2C3D4"))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateBooking(params)
	require.NoError(t, err)
	assert.Equal(t, bookingID, created.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_FallbackPatchFailureIsNotFatal(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	bookingID := uuid.New()
	params := testBookingParams()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("create_public_booking").
		WillReturnError(fmt.Errorf(`pq: function create_public_booking does not exist`))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_ref"}).
			AddRow(bookingID, "BK-20260901-C3D4E5"))
	// Optional field patch fails, the booking must still come back
	mock.ExpectExec("UPDATE bookings").
		WillReturnError(fmt.Errorf(`pq: column "company_nip" does not exist`))

	created, err := repo.CreateBooking(params)
	require.NoError(t, err)
	assert.Equal(t, bookingID, created.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchAccessToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	bookingID := uuid.New()

	mock.ExpectQuery("SELECT access_token FROM bookings").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"access_token"}).AddRow("tok-abc123"))

	token, err := repo.FetchAccessToken(bookingID)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc123", token)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByRef_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	mock.ExpectQuery("FROM bookings").
		WithArgs("BK-20260901-FFFFFF").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_ref"}))

	booking, err := repo.GetByRef("BK-20260901-FFFFFF")
	require.NoError(t, err)
	assert.Nil(t, booking)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	bookingID := uuid.New()

	mock.ExpectExec("UPDATE bookings").
		WithArgs(bookingID, "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(bookingID, models.BookingStatusConfirmed)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookings_StatusFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, testLogger())

	status := models.BookingStatusPending

	mock.ExpectQuery("FROM bookings").
		WithArgs("pending", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_ref"}).
			AddRow(uuid.New(), "BK-20260901-A1B2C3"))

	bookings, err := repo.ListBookings(&status, 50, 0)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

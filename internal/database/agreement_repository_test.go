package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/soltur/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agreementColumns() []string {
	return []string{"id", "booking_id", "status", "pdf_ref", "created_at", "updated_at"}
}

func TestCreateAgreement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAgreementRepository(db)

	bookingID := uuid.New()
	agreementID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO agreements").
		WillReturnRows(sqlmock.NewRows(agreementColumns()).
			AddRow(agreementID, bookingID, "generated", "umowa-BK-20260901-A1B2C3.pdf", now, now))

	agreement, err := repo.CreateAgreement(bookingID, "umowa-BK-20260901-A1B2C3.pdf")
	require.NoError(t, err)
	assert.Equal(t, agreementID, agreement.ID)
	assert.Equal(t, models.AgreementStatusGenerated, agreement.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgreementUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAgreementRepository(db)

	agreementID := uuid.New()

	for _, status := range []models.AgreementStatus{
		models.AgreementStatusSent,
		models.AgreementStatusSigned,
	} {
		mock.ExpectExec("UPDATE agreements").
			WithArgs(agreementID, string(status)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(agreementID, status))
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAgreementsByBookingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAgreementRepository(db)

	bookingID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM agreements").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows(agreementColumns()).
			AddRow(uuid.New(), bookingID, "sent", "umowa-BK-20260901-A1B2C3.pdf", now, now))

	agreements, err := repo.ListByBookingID(bookingID)
	require.NoError(t, err)
	require.Len(t, agreements, 1)
	assert.Equal(t, models.AgreementStatusSent, agreements[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

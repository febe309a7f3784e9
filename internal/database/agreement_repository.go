package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/soltur/backoffice/internal/models"
)

// AgreementRepository handles agreement database operations
type AgreementRepository struct {
	db *sqlx.DB
}

// NewAgreementRepository creates a new AgreementRepository
func NewAgreementRepository(db *sqlx.DB) *AgreementRepository {
	return &AgreementRepository{db: db}
}

// CreateAgreement records a generated agreement for a booking
func (r *AgreementRepository) CreateAgreement(bookingID uuid.UUID, pdfRef string) (*models.Agreement, error) {
	var agreement models.Agreement
	query := `
		INSERT INTO agreements (id, booking_id, status, pdf_ref)
		VALUES ($1, $2, $3, $4)
		RETURNING id, booking_id, status, pdf_ref, created_at, updated_at`

	err := r.db.Get(&agreement, query,
		uuid.New(), bookingID, string(models.AgreementStatusGenerated), pdfRef,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agreement: %w", err)
	}

	return &agreement, nil
}

// UpdateStatus moves an agreement along its lifecycle (generated → sent → signed)
func (r *AgreementRepository) UpdateStatus(id uuid.UUID, status models.AgreementStatus) error {
	if _, err := r.db.Exec(
		`UPDATE agreements SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	); err != nil {
		return fmt.Errorf("failed to update agreement status: %w", err)
	}
	return nil
}

// ListByBookingID returns all agreements recorded for a booking
func (r *AgreementRepository) ListByBookingID(bookingID uuid.UUID) ([]models.Agreement, error) {
	var agreements []models.Agreement
	query := `
		SELECT id, booking_id, status, pdf_ref, created_at, updated_at
		FROM agreements
		WHERE booking_id = $1
		ORDER BY created_at DESC`

	if err := r.db.Select(&agreements, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}

	return agreements, nil
}

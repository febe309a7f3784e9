package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/soltur/backoffice/internal/models"
)

// ParticipantRepository handles participant database operations
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// InsertParticipants inserts all participant rows for a booking in one
// transaction. Any failure rolls back the whole batch; the caller then
// tears down the booking and releases the seats.
func (r *ParticipantRepository) InsertParticipants(bookingID uuid.UUID, participants []models.Participant) error {
	if len(participants) == 0 {
		return fmt.Errorf("participant list cannot be empty")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO participants (
			id, booking_id, first_name, last_name, national_id,
			email, phone, document_type, document_number,
			address_street, address_city, address_zip
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	for _, p := range participants {
		_, err := tx.Exec(query,
			uuid.New(), bookingID, p.FirstName, p.LastName, p.NationalID,
			p.Email, p.Phone, p.DocumentType, p.DocumentNumber,
			p.AddressStreet, p.AddressCity, p.AddressZip,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant %s %s: %w", p.FirstName, p.LastName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit participants: %w", err)
	}

	return nil
}

// ListByBookingID returns all participants of a booking
func (r *ParticipantRepository) ListByBookingID(bookingID uuid.UUID) ([]models.Participant, error) {
	var participants []models.Participant
	query := `
		SELECT id, booking_id, first_name, last_name, national_id,
		       email, phone, document_type, document_number,
		       address_street, address_city, address_zip, created_at
		FROM participants
		WHERE booking_id = $1
		ORDER BY created_at, last_name`

	if err := r.db.Select(&participants, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, nil
}

// CountByBookingID returns how many participants a booking has
func (r *ParticipantRepository) CountByBookingID(bookingID uuid.UUID) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM participants WHERE booking_id = $1`, bookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

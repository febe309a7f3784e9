package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/models"
)

// BookingRepository handles booking database operations. It owns the two
// write strategies for booking creation: the create_public_booking stored
// procedure, and a raw insert with a best-effort field patch when the
// procedure is unavailable.
type BookingRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB, logger *logrus.Logger) *BookingRepository {
	return &BookingRepository{db: db, logger: logger}
}

// CreateBookingParams carries the validated data for a new booking row
type CreateBookingParams struct {
	TripID            uuid.UUID
	ContactFirstName  *string
	ContactLastName   *string
	ContactEmail      string
	ContactPhone      string
	AddressStreet     string
	AddressCity       string
	AddressZip        string
	CompanyName       *string
	CompanyNIP        *string
	CompanyAddress    *string
	ConsentData       bool
	ConsentTerms      bool
	ConsentConditions bool
	Source            models.BookingSource
}

// CreatedBooking is the persisted identity of a new booking row
type CreatedBooking struct {
	ID         uuid.UUID `db:"id"`
	BookingRef string    `db:"booking_ref"`
}

// GenerateBookingReference generates a unique booking reference.
// Format: BK-YYYYMMDD-XXXXXX (6 char hex suffix)
// Example: BK-20260901-A1B2C3
func (r *BookingRepository) GenerateBookingReference() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		randomStr := strings.ToUpper(hex.EncodeToString(randomBytes))

		newRef := fmt.Sprintf("BK-%s-%s", todayStr, randomStr)

		var count int
		err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE booking_ref = $1`, newRef)
		if err != nil {
			return "", fmt.Errorf("failed to check reference uniqueness: %w", err)
		}

		if count == 0 {
			return newRef, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique booking reference after 10 attempts")
}

// CreateBooking persists a booking row and returns its id and reference.
// Primary path is the create_public_booking procedure, which writes every
// field in one step. When the procedure errors or returns no row, the raw
// insert fallback takes over.
func (r *BookingRepository) CreateBooking(params *CreateBookingParams) (*CreatedBooking, error) {
	bookingRef, err := r.GenerateBookingReference()
	if err != nil {
		return nil, err
	}

	created, procErr := r.createViaProcedure(bookingRef, params)
	if procErr == nil && created != nil {
		return created, nil
	}

	r.logger.WithError(procErr).WithField("booking_ref", bookingRef).
		Warn("create_public_booking procedure unavailable, falling back to raw insert")

	return r.createViaInsert(bookingRef, params)
}

// createViaProcedure invokes the atomic create booking procedure
func (r *BookingRepository) createViaProcedure(bookingRef string, params *CreateBookingParams) (*CreatedBooking, error) {
	var created CreatedBooking
	query := `
		SELECT id, booking_ref FROM create_public_booking(
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17, $18
		)`

	err := r.db.Get(&created, query,
		params.TripID, bookingRef,
		params.ContactFirstName, params.ContactLastName,
		params.ContactEmail, params.ContactPhone,
		params.AddressStreet, params.AddressCity, params.AddressZip,
		params.CompanyName, params.CompanyNIP, params.CompanyAddress,
		params.ConsentData, params.ConsentTerms, params.ConsentConditions,
		string(models.BookingStatusPending), string(models.PaymentStatusUnpaid),
		string(params.Source),
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("create_public_booking returned no row")
	}
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// createViaInsert inserts the guaranteed-stable column set, then tries a
// secondary update for the optional fields. The secondary update is strictly
// best-effort: a booking missing split-name or company columns is still a
// valid booking.
func (r *BookingRepository) createViaInsert(bookingRef string, params *CreateBookingParams) (*CreatedBooking, error) {
	var created CreatedBooking
	insertQuery := `
		INSERT INTO bookings (
			id, booking_ref, trip_id, contact_email, contact_phone,
			address_street, address_city, address_zip,
			consent_data, consent_terms, consent_conditions, consents_accepted_at,
			status, payment_status, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), $12, $13, $14)
		RETURNING id, booking_ref`

	err := r.db.Get(&created, insertQuery,
		uuid.New(), bookingRef, params.TripID,
		params.ContactEmail, params.ContactPhone,
		params.AddressStreet, params.AddressCity, params.AddressZip,
		params.ConsentData, params.ConsentTerms, params.ConsentConditions,
		string(models.BookingStatusPending), string(models.PaymentStatusUnpaid),
		string(params.Source),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	patchQuery := `
		UPDATE bookings SET
			contact_first_name = $2,
			contact_last_name = $3,
			company_name = $4,
			company_nip = $5,
			company_address = $6,
			updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.Exec(patchQuery, created.ID,
		params.ContactFirstName, params.ContactLastName,
		params.CompanyName, params.CompanyNIP, params.CompanyAddress,
	); err != nil {
		// Best-effort enrichment. The booking row already exists and stays valid.
		r.logger.WithError(err).WithField("booking_id", created.ID).
			Warn("failed to patch optional booking fields")
	}

	return &created, nil
}

// FetchAccessToken reads back the DB-generated access token for a booking.
// This is the privileged read path: tokens are hidden from request-scoped
// access by row-level policy, and only the intake flow may read them, only
// to build the customer self-service link.
func (r *BookingRepository) FetchAccessToken(bookingID uuid.UUID) (string, error) {
	var token string
	err := r.db.Get(&token, `SELECT access_token FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	return token, nil
}

// DeleteBooking removes a booking row. Used only by the participant-write
// rollback; bookings are otherwise cancelled, never deleted.
func (r *BookingRepository) DeleteBooking(bookingID uuid.UUID) error {
	if _, err := r.db.Exec(`DELETE FROM bookings WHERE id = $1`, bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

// GetByAccessToken returns a booking matched on its self-service token.
// Returns nil when no booking matches.
func (r *BookingRepository) GetByAccessToken(token string) (*models.Booking, error) {
	var booking models.Booking
	query := `
		SELECT id, booking_ref, access_token, trip_id,
		       contact_first_name, contact_last_name, contact_email, contact_phone,
		       address_street, address_city, address_zip,
		       company_name, company_nip, company_address,
		       consent_data, consent_terms, consent_conditions, consents_accepted_at,
		       status, payment_status, source, internal_notes, created_at, updated_at
		FROM bookings
		WHERE access_token = $1`

	err := r.db.Get(&booking, query, token)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by token: %w", err)
	}

	return &booking, nil
}

// GetByRef returns a booking by its human-readable reference.
// Returns nil when not found.
func (r *BookingRepository) GetByRef(bookingRef string) (*models.Booking, error) {
	var booking models.Booking
	query := `
		SELECT id, booking_ref, access_token, trip_id,
		       contact_first_name, contact_last_name, contact_email, contact_phone,
		       address_street, address_city, address_zip,
		       company_name, company_nip, company_address,
		       consent_data, consent_terms, consent_conditions, consents_accepted_at,
		       status, payment_status, source, internal_notes, created_at, updated_at
		FROM bookings
		WHERE booking_ref = $1`

	err := r.db.Get(&booking, query, bookingRef)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by reference: %w", err)
	}

	return &booking, nil
}

// GetByID returns a booking by id. Returns nil when not found.
func (r *BookingRepository) GetByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	query := `
		SELECT id, booking_ref, access_token, trip_id,
		       contact_first_name, contact_last_name, contact_email, contact_phone,
		       address_street, address_city, address_zip,
		       company_name, company_nip, company_address,
		       consent_data, consent_terms, consent_conditions, consents_accepted_at,
		       status, payment_status, source, internal_notes, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := r.db.Get(&booking, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// ListBookings returns bookings for the admin panel, newest first, with an
// optional status filter.
func (r *BookingRepository) ListBookings(status *models.BookingStatus, limit, offset int) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, booking_ref, access_token, trip_id,
		       contact_first_name, contact_last_name, contact_email, contact_phone,
		       address_street, address_city, address_zip,
		       company_name, company_nip, company_address,
		       consent_data, consent_terms, consent_conditions, consents_accepted_at,
		       status, payment_status, source, internal_notes, created_at, updated_at
		FROM bookings
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var statusArg interface{}
	if status != nil {
		statusArg = string(*status)
	}

	if err := r.db.Select(&bookings, query, statusArg, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus updates a booking's lifecycle status (admin panel)
func (r *BookingRepository) UpdateStatus(id uuid.UUID, status models.BookingStatus) error {
	result, err := r.db.Exec(
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePaymentStatus sets a booking's payment status (webhook / admin)
func (r *BookingRepository) UpdatePaymentStatus(id uuid.UUID, status models.PaymentStatus) error {
	result, err := r.db.Exec(
		`UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check payment status update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateInternalNotes updates the free-form internal notes (admin panel)
func (r *BookingRepository) UpdateInternalNotes(id uuid.UUID, notes string) error {
	result, err := r.db.Exec(
		`UPDATE bookings SET internal_notes = $2, updated_at = NOW() WHERE id = $1`,
		id, notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update internal notes: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check notes update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

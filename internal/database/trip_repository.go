package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/soltur/backoffice/internal/models"
)

// ErrSeatsBelowReserved is returned when a trip update would shrink
// seats_total below the seats already reserved.
var ErrSeatsBelowReserved = errors.New("seats_total cannot drop below seats_reserved")

// TripRepository handles trip database operations, including the atomic
// seat reservation primitives. These primitives are the only writers of
// the seats_reserved counter.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// GetActiveBySlug looks up an active trip by its internal slug or its
// public-facing alias. Returns nil when no active trip matches.
func (r *TripRepository) GetActiveBySlug(slug string) (*models.Trip, error) {
	var trip models.Trip
	query := `
		SELECT id, title, slug, public_slug, start_date, end_date,
		       price_per_seat, seats_total, seats_reserved, is_active,
		       description, created_at, updated_at, deleted_at
		FROM trips
		WHERE (slug = $1 OR public_slug = $1)
		  AND is_active = true
		  AND deleted_at IS NULL`

	err := r.db.Get(&trip, query, slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip by slug: %w", err)
	}

	return &trip, nil
}

// GetByID returns a trip by its id. Returns nil when not found.
func (r *TripRepository) GetByID(id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	query := `
		SELECT id, title, slug, public_slug, start_date, end_date,
		       price_per_seat, seats_total, seats_reserved, is_active,
		       description, created_at, updated_at, deleted_at
		FROM trips
		WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.Get(&trip, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

// ReserveSeats atomically reserves count seats on a trip. The availability
// check and the increment happen in a single conditional update, so two
// concurrent bookings can never both push seats_reserved past seats_total.
// Returns false when the trip has too few seats left (or went inactive).
func (r *TripRepository) ReserveSeats(tripID uuid.UUID, count int) (bool, error) {
	if count <= 0 {
		return false, fmt.Errorf("seat count must be positive, got %d", count)
	}

	query := `
		UPDATE trips
		SET seats_reserved = seats_reserved + $2, updated_at = NOW()
		WHERE id = $1
		  AND is_active = true
		  AND deleted_at IS NULL
		  AND seats_reserved + $2 <= seats_total
		RETURNING seats_reserved`

	var reserved int
	err := r.db.Get(&reserved, query, tripID, count)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to reserve seats: %w", err)
	}

	return true, nil
}

// ReleaseSeats is the compensating action for ReserveSeats. The decrement is
// clamped at zero so a stray release can never drive the counter negative.
func (r *TripRepository) ReleaseSeats(tripID uuid.UUID, count int) error {
	if count <= 0 {
		return fmt.Errorf("seat count must be positive, got %d", count)
	}

	query := `
		UPDATE trips
		SET seats_reserved = GREATEST(seats_reserved - $2, 0), updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.Exec(query, tripID, count); err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	return nil
}

// CreateTrip creates a new trip (admin panel)
func (r *TripRepository) CreateTrip(req *models.CreateTripRequest) (*models.Trip, error) {
	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	var trip models.Trip
	query := `
		INSERT INTO trips (
			id, title, slug, public_slug, start_date, end_date,
			price_per_seat, seats_total, seats_reserved, is_active, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, true, $9)
		RETURNING id, title, slug, public_slug, start_date, end_date,
		          price_per_seat, seats_total, seats_reserved, is_active,
		          description, created_at, updated_at, deleted_at`

	err := r.db.Get(&trip, query,
		uuid.New(), req.Title, req.Slug, req.PublicSlug,
		startDate, endDate, req.PricePerSeat, req.SeatsTotal, req.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return &trip, nil
}

// ListTrips returns trips for the admin panel with pagination
func (r *TripRepository) ListTrips(limit, offset int) ([]models.Trip, error) {
	var trips []models.Trip
	query := `
		SELECT id, title, slug, public_slug, start_date, end_date,
		       price_per_seat, seats_total, seats_reserved, is_active,
		       description, created_at, updated_at, deleted_at
		FROM trips
		WHERE deleted_at IS NULL
		ORDER BY start_date DESC
		LIMIT $1 OFFSET $2`

	if err := r.db.Select(&trips, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	return trips, nil
}

// UpdateTrip applies a partial update to a trip (admin panel). The seat
// counter is never touched here, and the update refuses to shrink
// seats_total below the current seats_reserved so the capacity invariant
// survives admin edits.
func (r *TripRepository) UpdateTrip(id uuid.UUID, req *models.UpdateTripRequest) (*models.Trip, error) {
	var trip models.Trip
	query := `
		UPDATE trips SET
			title = COALESCE($2, title),
			public_slug = COALESCE($3, public_slug),
			start_date = COALESCE($4, start_date),
			end_date = COALESCE($5, end_date),
			price_per_seat = COALESCE($6, price_per_seat),
			seats_total = COALESCE($7, seats_total),
			is_active = COALESCE($8, is_active),
			description = COALESCE($9, description),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		  AND seats_reserved <= COALESCE($7, seats_total)
		RETURNING id, title, slug, public_slug, start_date, end_date,
		          price_per_seat, seats_total, seats_reserved, is_active,
		          description, created_at, updated_at, deleted_at`

	var startDate, endDate *time.Time
	if req.StartDate != nil {
		t, _ := time.Parse("2006-01-02", *req.StartDate)
		startDate = &t
	}
	if req.EndDate != nil {
		t, _ := time.Parse("2006-01-02", *req.EndDate)
		endDate = &t
	}

	err := r.db.Get(&trip, query,
		id, req.Title, req.PublicSlug, startDate, endDate,
		req.PricePerSeat, req.SeatsTotal, req.IsActive, req.Description,
	)
	if err == sql.ErrNoRows {
		// No row matched: either the trip is gone or the seats_reserved
		// guard rejected the new total. Disambiguate for the caller.
		if req.SeatsTotal != nil {
			existing, lookupErr := r.GetByID(id)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing != nil {
				return nil, ErrSeatsBelowReserved
			}
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	return &trip, nil
}

// DeactivateTrip soft-deletes a trip (admin panel)
func (r *TripRepository) DeactivateTrip(id uuid.UUID) error {
	query := `
		UPDATE trips
		SET is_active = false, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

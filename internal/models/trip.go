package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Trip represents a travel-agency trip offer with a fixed seat pool
type Trip struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Slug          string     `json:"slug" db:"slug"`
	PublicSlug    *string    `json:"public_slug,omitempty" db:"public_slug"`
	StartDate     time.Time  `json:"start_date" db:"start_date"`
	EndDate       time.Time  `json:"end_date" db:"end_date"`
	PricePerSeat  int64      `json:"price_per_seat" db:"price_per_seat"` // grosze (minor currency units)
	SeatsTotal    int        `json:"seats_total" db:"seats_total"`
	SeatsReserved int        `json:"seats_reserved" db:"seats_reserved"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	Description   *string    `json:"description,omitempty" db:"description"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// AvailableSeats returns how many seats can still be reserved.
// This is advisory only; the authoritative check happens inside the
// conditional reserve update.
func (t *Trip) AvailableSeats() int {
	available := t.SeatsTotal - t.SeatsReserved
	if available < 0 {
		return 0
	}
	return available
}

// CreateTripRequest represents the admin request to create a trip
type CreateTripRequest struct {
	Title        string  `json:"title" binding:"required"`
	Slug         string  `json:"slug" binding:"required"`
	PublicSlug   *string `json:"public_slug,omitempty"`
	StartDate    string  `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate      string  `json:"end_date" binding:"required"`
	PricePerSeat int64   `json:"price_per_seat"`
	SeatsTotal   int     `json:"seats_total" binding:"required,min=1"`
	Description  *string `json:"description,omitempty"`
}

// Validate validates the create trip request
func (r *CreateTripRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(r.Slug) == "" {
		return errors.New("slug is required")
	}
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return errors.New("start_date must be in YYYY-MM-DD format")
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return errors.New("end_date must be in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return errors.New("end_date cannot be before start_date")
	}
	if r.PricePerSeat < 0 {
		return errors.New("price_per_seat cannot be negative")
	}
	if r.SeatsTotal < 1 {
		return errors.New("seats_total must be at least 1")
	}
	return nil
}

// UpdateTripRequest represents the admin request to update a trip.
// Seat counters are deliberately absent: seats_reserved is only ever
// touched by the reserve/release primitives.
type UpdateTripRequest struct {
	Title        *string `json:"title,omitempty"`
	PublicSlug   *string `json:"public_slug,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	PricePerSeat *int64  `json:"price_per_seat,omitempty"`
	SeatsTotal   *int    `json:"seats_total,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// Validate validates the update trip request
func (r *UpdateTripRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if r.StartDate != nil {
		if _, err := time.Parse("2006-01-02", *r.StartDate); err != nil {
			return errors.New("start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		if _, err := time.Parse("2006-01-02", *r.EndDate); err != nil {
			return errors.New("end_date must be in YYYY-MM-DD format")
		}
	}
	if r.PricePerSeat != nil && *r.PricePerSeat < 0 {
		return errors.New("price_per_seat cannot be negative")
	}
	if r.SeatsTotal != nil && *r.SeatsTotal < 1 {
		return errors.New("seats_total must be at least 1")
	}
	return nil
}

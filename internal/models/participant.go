package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant represents a person travelling on a booking. Participants are
// only ever created in one batch together with their booking.
type Participant struct {
	ID             uuid.UUID `json:"id" db:"id"`
	BookingID      uuid.UUID `json:"booking_id" db:"booking_id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	NationalID     *string   `json:"national_id,omitempty" db:"national_id"`
	Email          *string   `json:"email,omitempty" db:"email"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	DocumentType   *string   `json:"document_type,omitempty" db:"document_type"`
	DocumentNumber *string   `json:"document_number,omitempty" db:"document_number"`
	AddressStreet  string    `json:"address_street" db:"address_street"`
	AddressCity    string    `json:"address_city" db:"address_city"`
	AddressZip     string    `json:"address_zip" db:"address_zip"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

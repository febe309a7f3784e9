package models

import (
	"time"

	"github.com/google/uuid"
)

// AgreementStatus represents the lifecycle of a generated agreement
type AgreementStatus string

const (
	AgreementStatusGenerated AgreementStatus = "generated"
	AgreementStatusSent      AgreementStatus = "sent"
	AgreementStatusSigned    AgreementStatus = "signed"
)

// Agreement records a generated agreement PDF for a booking. Agreements are
// created opportunistically after a successful render; a booking without one
// is still valid.
type Agreement struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	BookingID uuid.UUID       `json:"booking_id" db:"booking_id"`
	Status    AgreementStatus `json:"status" db:"status"`
	PDFRef    string          `json:"pdf_ref" db:"pdf_ref"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

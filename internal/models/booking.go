package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/soltur/backoffice/pkg/validator"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverpaid PaymentStatus = "overpaid"
)

// BookingSource tags where a booking came from
type BookingSource string

const (
	BookingSourcePublicPage BookingSource = "public_page"
	BookingSourceAdminPanel BookingSource = "admin_panel"
)

// Booking represents a customer booking on a trip
type Booking struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	BookingRef         string        `json:"booking_ref" db:"booking_ref"`
	AccessToken        *string       `json:"-" db:"access_token"`
	TripID             uuid.UUID     `json:"trip_id" db:"trip_id"`
	ContactFirstName   *string       `json:"contact_first_name,omitempty" db:"contact_first_name"`
	ContactLastName    *string       `json:"contact_last_name,omitempty" db:"contact_last_name"`
	ContactEmail       string        `json:"contact_email" db:"contact_email"`
	ContactPhone       string        `json:"contact_phone" db:"contact_phone"`
	AddressStreet      string        `json:"address_street" db:"address_street"`
	AddressCity        string        `json:"address_city" db:"address_city"`
	AddressZip         string        `json:"address_zip" db:"address_zip"`
	CompanyName        *string       `json:"company_name,omitempty" db:"company_name"`
	CompanyNIP         *string       `json:"company_nip,omitempty" db:"company_nip"`
	CompanyAddress     *string       `json:"company_address,omitempty" db:"company_address"`
	ConsentData        bool          `json:"consent_data" db:"consent_data"`
	ConsentTerms       bool          `json:"consent_terms" db:"consent_terms"`
	ConsentConditions  bool          `json:"consent_conditions" db:"consent_conditions"`
	ConsentsAcceptedAt *time.Time    `json:"consents_accepted_at,omitempty" db:"consents_accepted_at"`
	Status             BookingStatus `json:"status" db:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	Source             BookingSource `json:"source" db:"source"`
	InternalNotes      *string       `json:"internal_notes,omitempty" db:"internal_notes"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// BookingAddress is the contact address block of the intake payload
type BookingAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

// BookingConsents are the three required consent flags
type BookingConsents struct {
	DataProcessing bool `json:"data_processing"`
	Terms          bool `json:"terms"`
	Conditions     bool `json:"conditions"`
}

// ParticipantPayload is a single participant in the intake payload
type ParticipantPayload struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	NationalID     string  `json:"national_id"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	DocumentType   *string `json:"document_type,omitempty"`
	DocumentNumber *string `json:"document_number,omitempty"`
	Address        *BookingAddress `json:"address,omitempty"`
}

// CreateBookingRequest is the public booking intake payload
type CreateBookingRequest struct {
	Slug             string               `json:"slug"`
	ContactFirstName *string              `json:"contact_first_name,omitempty"`
	ContactLastName  *string              `json:"contact_last_name,omitempty"`
	ContactEmail     string               `json:"contact_email"`
	ContactPhone     string               `json:"contact_phone"`
	Address          BookingAddress       `json:"address"`
	CompanyName      *string              `json:"company_name,omitempty"`
	CompanyNIP       *string              `json:"company_nip,omitempty"`
	CompanyAddress   *string              `json:"company_address,omitempty"`
	Participants     []ParticipantPayload `json:"participants"`
	Consents         BookingConsents      `json:"consents"`
	WithPayment      bool                 `json:"with_payment"`
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsCompanyBooking reports whether the payload carries company invoice data.
// Company bookings relax the participant PESEL requirement.
func (r *CreateBookingRequest) IsCompanyBooking() bool {
	return r.CompanyNIP != nil && strings.TrimSpace(*r.CompanyNIP) != ""
}

// Validate checks the intake payload and returns a *ValidationError with a
// field-level detail map on failure. No side effect may happen before this
// passes.
func (r *CreateBookingRequest) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(r.Slug) == "" {
		fields["slug"] = "trip slug is required"
	}
	if !emailRegex.MatchString(r.ContactEmail) {
		fields["contact_email"] = "valid email address is required"
	}
	if len(strings.TrimSpace(r.ContactPhone)) < 9 {
		fields["contact_phone"] = "phone number must have at least 9 digits"
	}
	if len(strings.TrimSpace(r.Address.Street)) < 3 {
		fields["address.street"] = "street must have at least 3 characters"
	}
	if len(strings.TrimSpace(r.Address.City)) < 2 {
		fields["address.city"] = "city must have at least 2 characters"
	}
	if len(strings.TrimSpace(r.Address.Zip)) < 5 {
		fields["address.zip"] = "zip code must have at least 5 characters"
	}

	if len(r.Participants) == 0 {
		fields["participants"] = "at least one participant is required"
	}

	company := r.IsCompanyBooking()
	for i, p := range r.Participants {
		if strings.TrimSpace(p.FirstName) == "" {
			fields[fmt.Sprintf("participants.%d.first_name", i)] = "first name is required"
		}
		if strings.TrimSpace(p.LastName) == "" {
			fields[fmt.Sprintf("participants.%d.last_name", i)] = "last name is required"
		}
		if !company || strings.TrimSpace(p.NationalID) != "" {
			if _, err := validator.ValidatePESEL(p.NationalID); err != nil {
				fields[fmt.Sprintf("participants.%d.national_id", i)] = err.Error()
			}
		}
		if p.Email != nil && *p.Email != "" && !emailRegex.MatchString(*p.Email) {
			fields[fmt.Sprintf("participants.%d.email", i)] = "invalid email address"
		}
		if p.Phone != nil && *p.Phone != "" && len(strings.TrimSpace(*p.Phone)) < 9 {
			fields[fmt.Sprintf("participants.%d.phone", i)] = "phone number must have at least 9 digits"
		}
		if p.DocumentType != nil && strings.TrimSpace(*p.DocumentType) == "" {
			fields[fmt.Sprintf("participants.%d.document_type", i)] = "document type cannot be empty"
		}
		if p.DocumentNumber != nil && *p.DocumentNumber != "" {
			if strings.TrimSpace(*p.DocumentNumber) == "" {
				fields[fmt.Sprintf("participants.%d.document_number", i)] = "document number cannot be empty"
			} else if p.DocumentType == nil || strings.TrimSpace(*p.DocumentType) == "" {
				fields[fmt.Sprintf("participants.%d.document_type", i)] = "document type is required with a document number"
			}
		}
	}

	if !r.Consents.DataProcessing {
		fields["consents.data_processing"] = "data processing consent is required"
	}
	if !r.Consents.Terms {
		fields["consents.terms"] = "terms consent is required"
	}
	if !r.Consents.Conditions {
		fields["consents.conditions"] = "conditions consent is required"
	}

	if company {
		if _, err := validator.ValidateNIP(*r.CompanyNIP); err != nil {
			fields["company_nip"] = err.Error()
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidationError carries a field-level detail map for a rejected payload
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// BookingCreatedResponse is the 201 response of the public intake endpoint
type BookingCreatedResponse struct {
	BookingRef      string `json:"booking_ref"`
	AgreementPDFURL string `json:"agreement_pdf_url,omitempty"`
	BookingURL      string `json:"booking_url"`
	RedirectURL     string `json:"redirect_url,omitempty"`
}

// BookingDetailResponse is the customer self-service view of a booking
type BookingDetailResponse struct {
	BookingRef    string        `json:"booking_ref"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TripTitle     string        `json:"trip_title"`
	TripStartDate time.Time     `json:"trip_start_date"`
	TripEndDate   time.Time     `json:"trip_end_date"`
	ContactEmail  string        `json:"contact_email"`
	TotalAmount   int64         `json:"total_amount"` // grosze
	Participants  []Participant `json:"participants"`
}

// UpdateBookingNotesRequest updates the free-form internal notes (admin)
type UpdateBookingNotesRequest struct {
	InternalNotes string `json:"internal_notes"`
}

// UpdateBookingStatusRequest updates the booking status (admin)
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status"`
}

// Validate validates the status transition request
func (r *UpdateBookingStatusRequest) Validate() error {
	switch r.Status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return nil
	}
	return fmt.Errorf("invalid status: %s", r.Status)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookingRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		Slug:         "mazury-2026",
		ContactEmail: "jan.nowak@example.com",
		ContactPhone: "600700800",
		Address: BookingAddress{
			Street: "ul. Polna 12",
			City:   "Warszawa",
			Zip:    "00-001",
		},
		Participants: []ParticipantPayload{
			{FirstName: "Jan", LastName: "Nowak", NationalID: "90010112345"},
			{FirstName: "Maria", LastName: "Nowak", NationalID: "92050554321"},
		},
		Consents: BookingConsents{
			DataProcessing: true,
			Terms:          true,
			Conditions:     true,
		},
	}
}

func TestCreateBookingRequest_Valid(t *testing.T) {
	req := validBookingRequest()
	assert.NoError(t, req.Validate())
}

func TestCreateBookingRequest_MissingFields(t *testing.T) {
	req := &CreateBookingRequest{}
	err := req.Validate()
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	for _, field := range []string{
		"slug",
		"contact_email",
		"contact_phone",
		"address.street",
		"address.city",
		"address.zip",
		"participants",
		"consents.data_processing",
		"consents.terms",
		"consents.conditions",
	} {
		assert.Contains(t, validationErr.Fields, field)
	}
}

func TestCreateBookingRequest_InvalidEmail(t *testing.T) {
	req := validBookingRequest()
	req.ContactEmail = "not-an-email"

	var validationErr *ValidationError
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "contact_email")
}

func TestCreateBookingRequest_ParticipantErrorsAreIndexed(t *testing.T) {
	req := validBookingRequest()
	req.Participants[1].FirstName = ""
	req.Participants[1].NationalID = "123"

	var validationErr *ValidationError
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "participants.1.first_name")
	assert.Contains(t, validationErr.Fields, "participants.1.national_id")
	assert.NotContains(t, validationErr.Fields, "participants.0.first_name")
}

func TestCreateBookingRequest_CompanyBookingRelaxesPESEL(t *testing.T) {
	nip := "123-456-78-90"
	name := "Soltur Partner Sp. z o.o."

	req := validBookingRequest()
	req.CompanyName = &name
	req.CompanyNIP = &nip
	req.Participants[0].NationalID = ""
	req.Participants[1].NationalID = ""

	assert.True(t, req.IsCompanyBooking())
	assert.NoError(t, req.Validate())
}

func TestCreateBookingRequest_CompanyBookingStillValidatesProvidedPESEL(t *testing.T) {
	nip := "1234567890"

	req := validBookingRequest()
	req.CompanyNIP = &nip
	req.Participants[0].NationalID = "abc"

	var validationErr *ValidationError
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "participants.0.national_id")
}

func TestCreateBookingRequest_DocumentNumberRequiresType(t *testing.T) {
	number := "ZZ1234567"

	req := validBookingRequest()
	req.Participants[0].DocumentNumber = &number

	var validationErr *ValidationError
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "participants.0.document_type")

	docType := "passport"
	req.Participants[0].DocumentType = &docType
	assert.NoError(t, req.Validate())
}

func TestCreateBookingRequest_BlankDocumentTypeRejected(t *testing.T) {
	blank := "   "

	req := validBookingRequest()
	req.Participants[1].DocumentType = &blank

	var validationErr *ValidationError
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "participants.1.document_type")
}

func TestCreateBookingRequest_InvalidNIP(t *testing.T) {
	nip := "123"

	req := validBookingRequest()
	req.CompanyNIP = &nip

	var validationErr *ValidationError
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "company_nip")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"slug":          "trip slug is required",
		"contact_email": "valid email address is required",
	}}

	// Field names sorted for a stable message
	assert.Equal(t, "validation failed: contact_email, slug", err.Error())
}

func TestUpdateBookingStatusRequest_Validate(t *testing.T) {
	for _, status := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled} {
		req := &UpdateBookingStatusRequest{Status: status}
		assert.NoError(t, req.Validate())
	}

	req := &UpdateBookingStatusRequest{Status: "archived"}
	assert.Error(t, req.Validate())
}

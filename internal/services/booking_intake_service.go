package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/config"
	"github.com/soltur/backoffice/internal/database"
	"github.com/soltur/backoffice/internal/models"
	"github.com/soltur/backoffice/pkg/mailer"
	"github.com/soltur/backoffice/pkg/validator"
)

var (
	// ErrTripNotFound is returned when the slug matches no active trip
	ErrTripNotFound = errors.New("trip not found")

	// ErrNotEnoughSeats is returned when the trip cannot take the requested seats
	ErrNotEnoughSeats = errors.New("not enough seats available")
)

// TripStore is the trip persistence surface the intake flow needs
type TripStore interface {
	GetActiveBySlug(slug string) (*models.Trip, error)
	GetByID(id uuid.UUID) (*models.Trip, error)
	ReserveSeats(tripID uuid.UUID, count int) (bool, error)
	ReleaseSeats(tripID uuid.UUID, count int) error
}

// BookingStore is the booking persistence surface the intake flow needs
type BookingStore interface {
	CreateBooking(params *database.CreateBookingParams) (*database.CreatedBooking, error)
	FetchAccessToken(bookingID uuid.UUID) (string, error)
	DeleteBooking(bookingID uuid.UUID) error
	GetByAccessToken(token string) (*models.Booking, error)
	GetByRef(bookingRef string) (*models.Booking, error)
	UpdatePaymentStatus(id uuid.UUID, status models.PaymentStatus) error
}

// ParticipantStore is the participant persistence surface the intake flow needs
type ParticipantStore interface {
	InsertParticipants(bookingID uuid.UUID, participants []models.Participant) error
	ListByBookingID(bookingID uuid.UUID) ([]models.Participant, error)
	CountByBookingID(bookingID uuid.UUID) (int, error)
}

// AgreementStore records generated agreements and their lifecycle
type AgreementStore interface {
	CreateAgreement(bookingID uuid.UUID, pdfRef string) (*models.Agreement, error)
	UpdateStatus(id uuid.UUID, status models.AgreementStatus) error
}

// AgreementRenderer produces the agreement PDF
type AgreementRenderer interface {
	Render(data *AgreementData) (*RenderedAgreement, error)
}

// PaymentGateway opens hosted payment sessions and verifies notifications
type PaymentGateway interface {
	IsConfigured() bool
	CreateSession(params *PaymentSessionParams) (*PaymentSession, error)
	VerifySign(sessionID string, amount int64, currency, sign string) bool
}

// BookingIntakeService handles the public booking flow:
// validate → reserve seats → write booking → write participants →
// fulfillment (PDF, email, payment session).
type BookingIntakeService struct {
	trips        TripStore
	bookings     BookingStore
	participants ParticipantStore
	agreements   AgreementStore
	renderer     AgreementRenderer
	mail         mailer.Mailer
	payments     PaymentGateway
	cfg          config.BookingConfig
	logger       *logrus.Logger
}

// NewBookingIntakeService creates a new BookingIntakeService
func NewBookingIntakeService(
	trips TripStore,
	bookings BookingStore,
	participants ParticipantStore,
	agreements AgreementStore,
	renderer AgreementRenderer,
	mail mailer.Mailer,
	payments PaymentGateway,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *BookingIntakeService {
	return &BookingIntakeService{
		trips:        trips,
		bookings:     bookings,
		participants: participants,
		agreements:   agreements,
		renderer:     renderer,
		mail:         mail,
		payments:     payments,
		cfg:          cfg,
		logger:       logger,
	}
}

// CreateBooking runs the full intake flow for one request. Stages execute
// strictly in sequence; fulfillment failures degrade the response but never
// fail the booking. Exactly two rollback points exist: a failed booking
// write releases the seats, a failed participant write deletes the booking
// and releases the seats.
func (s *BookingIntakeService) CreateBooking(
	req *models.CreateBookingRequest,
	source models.BookingSource,
	client string,
) (*models.BookingCreatedResponse, error) {
	// 1. Validate before any side effect
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Trip lookup, active trips only
	trip, err := s.trips.GetActiveBySlug(req.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to look up trip: %w", err)
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	seats := len(req.Participants)

	// 3. Advisory availability check for fast feedback. The authoritative
	// check is inside ReserveSeats.
	if seats > trip.AvailableSeats() {
		return nil, ErrNotEnoughSeats
	}

	// 4. Atomic seat reservation
	reserved, err := s.trips.ReserveSeats(trip.ID, seats)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}
	if !reserved {
		return nil, ErrNotEnoughSeats
	}

	// Compensating action, fired at most once
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		if err := s.trips.ReleaseSeats(trip.ID, seats); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"trip_id": trip.ID,
				"seats":   seats,
			}).Error("failed to release seat reservation")
		}
	}

	// 5. Booking row
	created, err := s.bookings.CreateBooking(s.buildBookingParams(trip.ID, req, source))
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// 6. Access token for the self-service link; degrade to the reference
	// lookup URL when the privileged read fails.
	bookingURL := fmt.Sprintf("%s/booking/lookup?ref=%s", s.cfg.PublicBaseURL, created.BookingRef)
	token, err := s.bookings.FetchAccessToken(created.ID)
	if err != nil {
		s.logger.WithError(err).WithField("booking_id", created.ID).
			Warn("failed to fetch booking access token, using fallback URL")
	} else if token != "" {
		bookingURL = fmt.Sprintf("%s/booking/%s", s.cfg.PublicBaseURL, token)
	}

	// 7. Participants, the one stage that tears the booking down on failure
	if err := s.insertParticipants(created.ID, req); err != nil {
		if delErr := s.bookings.DeleteBooking(created.ID); delErr != nil {
			s.logger.WithError(delErr).WithField("booking_id", created.ID).
				Error("failed to delete booking during rollback")
		}
		release()
		return nil, fmt.Errorf("failed to insert participants: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_ref": created.BookingRef,
		"trip_id":     trip.ID,
		"seats":       seats,
		"source":      source,
		"client":      client,
	}).Info("Booking created")

	// 8. Fulfillment, best-effort only from here on
	response := &models.BookingCreatedResponse{
		BookingRef: created.BookingRef,
		BookingURL: bookingURL,
	}

	total := trip.PricePerSeat * int64(seats)

	attachment, pdfURL, agreement := s.generateAgreement(created, trip, req, total)
	response.AgreementPDFURL = pdfURL

	sent := s.sendConfirmationEmail(created.BookingRef, bookingURL, req.ContactEmail, trip.Title, attachment)
	if sent && agreement != nil && attachment != nil {
		if err := s.agreements.UpdateStatus(agreement.ID, models.AgreementStatusSent); err != nil {
			s.logger.WithError(err).WithField("booking_ref", created.BookingRef).
				Warn("failed to mark agreement as sent")
		}
	}

	if req.WithPayment && total > 0 {
		response.RedirectURL = s.openPaymentSession(created.BookingRef, total, req.ContactEmail, trip.Title, bookingURL)
	}

	return response, nil
}

// buildBookingParams maps the validated payload onto the writer params
func (s *BookingIntakeService) buildBookingParams(
	tripID uuid.UUID,
	req *models.CreateBookingRequest,
	source models.BookingSource,
) *database.CreateBookingParams {
	params := &database.CreateBookingParams{
		TripID:            tripID,
		ContactFirstName:  req.ContactFirstName,
		ContactLastName:   req.ContactLastName,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		AddressStreet:     req.Address.Street,
		AddressCity:       req.Address.City,
		AddressZip:        req.Address.Zip,
		CompanyName:       req.CompanyName,
		CompanyAddress:    req.CompanyAddress,
		ConsentData:       req.Consents.DataProcessing,
		ConsentTerms:      req.Consents.Terms,
		ConsentConditions: req.Consents.Conditions,
		Source:            source,
	}

	if req.IsCompanyBooking() {
		sanitized, err := validator.ValidateNIP(*req.CompanyNIP)
		if err == nil {
			params.CompanyNIP = &sanitized
		}
	}

	return params
}

// insertParticipants builds the participant batch, defaulting each address
// to the contact address, and writes it in one transaction.
func (s *BookingIntakeService) insertParticipants(bookingID uuid.UUID, req *models.CreateBookingRequest) error {
	rows := make([]models.Participant, len(req.Participants))
	for i, p := range req.Participants {
		row := models.Participant{
			BookingID:      bookingID,
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			Email:          p.Email,
			Phone:          p.Phone,
			DocumentType:   p.DocumentType,
			DocumentNumber: p.DocumentNumber,
			AddressStreet:  req.Address.Street,
			AddressCity:    req.Address.City,
			AddressZip:     req.Address.Zip,
		}

		if sanitized, err := validator.ValidatePESEL(p.NationalID); err == nil {
			row.NationalID = &sanitized
		}

		if p.Address != nil {
			row.AddressStreet = p.Address.Street
			row.AddressCity = p.Address.City
			row.AddressZip = p.Address.Zip
		}

		rows[i] = row
	}

	return s.participants.InsertParticipants(bookingID, rows)
}

// generateAgreement renders the agreement PDF and records it. Returns the
// email attachment, the document URL for the response and the agreement
// row; everything empty on failure. Local placeholder renders travel only
// as an email attachment, so they get no document URL and no agreement row.
func (s *BookingIntakeService) generateAgreement(
	created *database.CreatedBooking,
	trip *models.Trip,
	req *models.CreateBookingRequest,
	total int64,
) (*mailer.Attachment, string, *models.Agreement) {
	data := &AgreementData{
		BookingRef:   created.BookingRef,
		TripTitle:    trip.Title,
		TripStart:    trip.StartDate,
		TripEnd:      trip.EndDate,
		ContactName:  contactName(req),
		ContactEmail: req.ContactEmail,
		CompanyName:  req.CompanyName,
		CompanyNIP:   req.CompanyNIP,
		TotalAmount:  total,
		Currency:     s.cfg.Currency,
	}
	for _, p := range req.Participants {
		data.Participants = append(data.Participants, models.Participant{
			FirstName: p.FirstName,
			LastName:  p.LastName,
		})
	}

	rendered, err := s.renderer.Render(data)
	if err != nil {
		s.logger.WithError(err).WithField("booking_ref", created.BookingRef).
			Warn("agreement generation failed, booking continues without attachment")
		return nil, "", nil
	}

	attachment := &mailer.Attachment{
		Filename:    rendered.Filename,
		ContentType: "application/pdf",
		Data:        rendered.Data,
	}

	if !rendered.Remote {
		return attachment, "", nil
	}

	agreement, err := s.agreements.CreateAgreement(created.ID, rendered.Filename)
	if err != nil {
		s.logger.WithError(err).WithField("booking_ref", created.BookingRef).
			Warn("failed to record agreement")
	}
	pdfURL := fmt.Sprintf("%s/documents/%s", s.cfg.PublicBaseURL, rendered.Filename)

	return attachment, pdfURL, agreement
}

// sendConfirmationEmail dispatches the booking confirmation. Failures are
// logged only. Reports whether the message went out.
func (s *BookingIntakeService) sendConfirmationEmail(
	bookingRef, bookingURL, to, tripTitle string,
	attachment *mailer.Attachment,
) bool {
	msg := buildConfirmationEmail(bookingRef, bookingURL, to, tripTitle)
	msg.Attachment = attachment

	if err := s.mail.Send(msg); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"booking_ref": bookingRef,
			"to":          to,
		}).Error("failed to send confirmation email")
		return false
	}

	s.logger.WithField("booking_ref", bookingRef).Info("Confirmation email sent")
	return true
}

// openPaymentSession opens a hosted payment session and returns the redirect
// URL, or empty string when the gateway is unavailable.
func (s *BookingIntakeService) openPaymentSession(
	bookingRef string,
	total int64,
	buyerEmail, tripTitle, bookingURL string,
) string {
	if !s.payments.IsConfigured() {
		s.logger.WithField("booking_ref", bookingRef).
			Warn("payment requested but gateway not configured")
		return ""
	}

	session, err := s.payments.CreateSession(&PaymentSessionParams{
		SessionID:   bookingRef,
		Amount:      total,
		Currency:    s.cfg.Currency,
		Description: fmt.Sprintf("Rezerwacja %s - %s", bookingRef, tripTitle),
		BuyerEmail:  buyerEmail,
		ReturnURL:   bookingURL,
	})
	if err != nil {
		s.logger.WithError(err).WithField("booking_ref", bookingRef).
			Error("failed to open payment session, booking continues without redirect")
		return ""
	}

	return session.RedirectURL
}

// GetBookingByToken returns the customer self-service view of a booking.
// Returns nil when the token matches nothing.
func (s *BookingIntakeService) GetBookingByToken(token string) (*models.BookingDetailResponse, error) {
	booking, err := s.bookings.GetByAccessToken(token)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}

	trip, err := s.trips.GetByID(booking.TripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, fmt.Errorf("booking %s references missing trip %s", booking.BookingRef, booking.TripID)
	}

	participants, err := s.participants.ListByBookingID(booking.ID)
	if err != nil {
		return nil, err
	}

	return &models.BookingDetailResponse{
		BookingRef:    booking.BookingRef,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		TripTitle:     trip.Title,
		TripStartDate: trip.StartDate,
		TripEndDate:   trip.EndDate,
		ContactEmail:  booking.ContactEmail,
		TotalAmount:   trip.PricePerSeat * int64(len(participants)),
		Participants:  participants,
	}, nil
}

// ApplyPaymentNotification verifies a gateway notification and updates the
// booking's payment status. The session id is the booking reference.
func (s *BookingIntakeService) ApplyPaymentNotification(sessionID string, amount int64, currency, sign string) error {
	if !s.payments.VerifySign(sessionID, amount, currency, sign) {
		return fmt.Errorf("invalid payment notification sign for session %s", sessionID)
	}

	booking, err := s.bookings.GetByRef(sessionID)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("payment notification for unknown booking %s", sessionID)
	}

	trip, err := s.trips.GetByID(booking.TripID)
	if err != nil {
		return err
	}
	seats, err := s.participants.CountByBookingID(booking.ID)
	if err != nil {
		return err
	}

	expected := int64(0)
	if trip != nil {
		expected = trip.PricePerSeat * int64(seats)
	}

	status := models.PaymentStatusPaid
	switch {
	case expected > 0 && amount < expected:
		status = models.PaymentStatusPartial
	case expected > 0 && amount > expected:
		status = models.PaymentStatusOverpaid
	}

	if err := s.bookings.UpdatePaymentStatus(booking.ID, status); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_ref":    booking.BookingRef,
		"amount":         amount,
		"expected":       expected,
		"payment_status": status,
	}).Info("Payment notification applied")

	return nil
}

// contactName joins the optional contact name fields for display
func contactName(req *models.CreateBookingRequest) string {
	first, last := "", ""
	if req.ContactFirstName != nil {
		first = *req.ContactFirstName
	}
	if req.ContactLastName != nil {
		last = *req.ContactLastName
	}
	name := first
	if last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	if name == "" {
		name = req.ContactEmail
	}
	return name
}

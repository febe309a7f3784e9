package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/database"
	"github.com/soltur/backoffice/internal/middleware"
	"github.com/soltur/backoffice/internal/models"
	"github.com/soltur/backoffice/internal/services"
)

// AdminBookingHandler handles booking management from the admin panel
type AdminBookingHandler struct {
	bookings      *database.BookingRepository
	participants  *database.ParticipantRepository
	agreements    *database.AgreementRepository
	intakeService *services.BookingIntakeService
	logger        *logrus.Logger
}

// NewAdminBookingHandler creates a new AdminBookingHandler
func NewAdminBookingHandler(
	bookings *database.BookingRepository,
	participants *database.ParticipantRepository,
	agreements *database.AgreementRepository,
	intakeService *services.BookingIntakeService,
	logger *logrus.Logger,
) *AdminBookingHandler {
	return &AdminBookingHandler{
		bookings:      bookings,
		participants:  participants,
		agreements:    agreements,
		intakeService: intakeService,
		logger:        logger,
	}
}

// CreateBooking handles POST /api/v1/admin/bookings
// Phone bookings entered by an operator go through the same intake
// pipeline as the public page, only the recorded source differs.
func (h *AdminBookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
		return
	}

	client := "admin-panel"
	if admin, ok := middleware.GetAdminContext(c); ok {
		client = "admin-panel/" + admin.Email
	}

	response, err := h.intakeService.CreateBooking(&req, models.BookingSourceAdminPanel, client)
	if err != nil {
		h.respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListBookings handles GET /api/v1/admin/bookings
// Optional ?status= filter, limit/offset pagination.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	limit, offset := paginationParams(c)

	var status *models.BookingStatus
	if raw := c.Query("status"); raw != "" {
		s := models.BookingStatus(raw)
		if err := (&models.UpdateBookingStatusRequest{Status: s}).Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status_filter"})
			return
		}
		status = &s
	}

	bookings, err := h.bookings.ListBookings(status, limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetBooking handles GET /api/v1/admin/bookings/:id
// Returns the booking row together with its participants and agreements.
func (h *AdminBookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_booking_id"})
		return
	}

	booking, err := h.bookings.GetByID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking_not_found"})
		return
	}

	participants, err := h.participants.ListByBookingID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch participants")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	agreements, err := h.agreements.ListByBookingID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch agreements")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":      booking,
		"participants": participants,
		"agreements":   agreements,
	})
}

// UpdateStatus handles PATCH /api/v1/admin/bookings/:id/status
func (h *AdminBookingHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_booking_id"})
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bookings.UpdateStatus(id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking_not_found"})
			return
		}
		h.logger.WithError(err).Error("Failed to update booking status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"booking_id": id,
		"status":     req.Status,
	}).Info("Booking status updated")

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// UpdateNotes handles PATCH /api/v1/admin/bookings/:id/notes
func (h *AdminBookingHandler) UpdateNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_booking_id"})
		return
	}

	var req models.UpdateBookingNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}

	if err := h.bookings.UpdateInternalNotes(id, req.InternalNotes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking_not_found"})
			return
		}
		h.logger.WithError(err).Error("Failed to update booking notes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *AdminBookingHandler) respondIntakeError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": validationErr.Fields,
		})
		return
	}
	if errors.Is(err, services.ErrTripNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip_not_found"})
		return
	}
	if errors.Is(err, services.ErrNotEnoughSeats) {
		c.JSON(http.StatusConflict, gin.H{"error": "not_enough_seats"})
		return
	}

	h.logger.WithError(err).Error("Failed to create booking")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": err.Error(),
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/models"
	"github.com/soltur/backoffice/internal/services"
	"github.com/soltur/backoffice/internal/utils"
)

// BookingHandler handles the public booking endpoints
type BookingHandler struct {
	intakeService *services.BookingIntakeService
	logger        *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(intakeService *services.BookingIntakeService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		intakeService: intakeService,
		logger:        logger,
	}
}

// CreateBooking handles POST /api/v1/bookings
// @Summary Create a booking
// @Description Reserves seats on a trip, persists the booking with its
// participants and kicks off agreement/email/payment fulfillment
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking payload"
// @Success 201 {object} models.BookingCreatedResponse
// @Failure 400 {object} map[string]interface{} "Validation error with field details"
// @Failure 404 {object} map[string]interface{} "Trip not found or inactive"
// @Failure 409 {object} map[string]interface{} "Not enough seats"
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_payload",
			"message": "Request body could not be parsed: " + err.Error(),
		})
		return
	}

	// Device description plus the real client IP, for the intake audit log
	client := utils.ParseUserAgent(utils.GetUserAgent(c)).Describe() + " " + utils.GetRealIP(c)

	response, err := h.intakeService.CreateBooking(&req, models.BookingSourcePublicPage, client)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetBooking handles GET /api/v1/bookings/:token
// Customer self-service lookup, matched on the opaque access token.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	token := c.Param("token")

	detail, err := h.intakeService.GetBookingByToken(token)
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up booking by token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking_not_found"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// respondBookingError maps intake errors onto the response contract
func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
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

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/database"
	"github.com/soltur/backoffice/internal/models"
)

// TripHandler handles admin trip management
type TripHandler struct {
	trips  *database.TripRepository
	logger *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(trips *database.TripRepository, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		trips:  trips,
		logger: logger,
	}
}

// CreateTrip handles POST /api/v1/admin/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.trips.CreateTrip(&req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"slug":    trip.Slug,
	}).Info("Trip created")

	c.JSON(http.StatusCreated, trip)
}

// ListTrips handles GET /api/v1/admin/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	limit, offset := paginationParams(c)

	trips, err := h.trips.ListTrips(limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list trips")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips":  trips,
		"limit":  limit,
		"offset": offset,
	})
}

// GetTrip handles GET /api/v1/admin/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_trip_id"})
		return
	}

	trip, err := h.trips.GetByID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if trip == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip_not_found"})
		return
	}

	c.JSON(http.StatusOK, trip)
}

// UpdateTrip handles PATCH /api/v1/admin/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_trip_id"})
		return
	}

	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.trips.UpdateTrip(id, &req)
	if err != nil {
		if errors.Is(err, database.ErrSeatsBelowReserved) {
			c.JSON(http.StatusConflict, gin.H{"error": "seats_total_below_reserved"})
			return
		}
		h.logger.WithError(err).Error("Failed to update trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if trip == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip_not_found"})
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeactivateTrip handles DELETE /api/v1/admin/trips/:id
// Soft delete: the trip stops accepting bookings but stays queryable
// for the bookings that already reference it.
func (h *TripHandler) DeactivateTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_trip_id"})
		return
	}

	if err := h.trips.DeactivateTrip(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "trip_not_found"})
			return
		}
		h.logger.WithError(err).Error("Failed to deactivate trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.logger.WithField("trip_id", id).Info("Trip deactivated")
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// paginationParams reads limit/offset query params with sane bounds
func paginationParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

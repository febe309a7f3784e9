package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/services"
)

// PaymentWebhookHandler receives asynchronous transaction notifications
// from the payment gateway
type PaymentWebhookHandler struct {
	intakeService *services.BookingIntakeService
	logger        *logrus.Logger
}

// NewPaymentWebhookHandler creates a new PaymentWebhookHandler
func NewPaymentWebhookHandler(intakeService *services.BookingIntakeService, logger *logrus.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		intakeService: intakeService,
		logger:        logger,
	}
}

// PaymentNotificationRequest is the gateway's notification payload. The
// sessionId carries our booking reference.
type PaymentNotificationRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency" binding:"required"`
	Sign      string `json:"sign" binding:"required"`
}

// Notify handles POST /api/v1/payments/notify
// The gateway retries on any non-200 response, so signature failures are
// answered with 400 and everything else with 500.
func (h *PaymentWebhookHandler) Notify(c *gin.Context) {
	var req PaymentNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}

	if err := h.intakeService.ApplyPaymentNotification(req.SessionID, req.Amount, req.Currency, req.Sign); err != nil {
		h.logger.WithError(err).WithField("session_id", req.SessionID).
			Error("Failed to apply payment notification")
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification_rejected"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

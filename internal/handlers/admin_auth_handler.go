package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/database"
	"github.com/soltur/backoffice/internal/models"
	"github.com/soltur/backoffice/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthHandler handles admin panel authentication
type AdminAuthHandler struct {
	admins            *database.AdminUserRepository
	jwtService        *jwt.Service
	accessTokenExpiry time.Duration
	logger            *logrus.Logger
}

// NewAdminAuthHandler creates a new AdminAuthHandler
func NewAdminAuthHandler(
	admins *database.AdminUserRepository,
	jwtService *jwt.Service,
	accessTokenExpiry time.Duration,
	logger *logrus.Logger,
) *AdminAuthHandler {
	return &AdminAuthHandler{
		admins:            admins,
		jwtService:        jwtService,
		accessTokenExpiry: accessTokenExpiry,
		logger:            logger,
	}
}

// Login handles POST /api/v1/admin/auth/login
// Invalid email and wrong password return the same error so the endpoint
// does not leak which accounts exist.
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.admins.GetByEmail(req.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch admin user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if admin == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	tokens, err := h.issueTokens(admin)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue admin tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := h.admins.TouchLastLogin(admin.ID); err != nil {
		h.logger.WithError(err).WithField("admin_id", admin.ID).
			Warn("Failed to update last login timestamp")
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id": admin.ID,
		"email":    admin.Email,
	}).Info("Admin logged in")

	c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /api/v1/admin/auth/refresh
func (h *AdminAuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token"})
		return
	}

	// Re-check the account so a deactivated admin cannot keep refreshing
	admin, err := h.admins.GetByID(claims.AdminID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch admin user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if admin == nil || !admin.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account_disabled"})
		return
	}

	tokens, err := h.issueTokens(admin)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue admin tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AdminAuthHandler) issueTokens(admin *models.AdminUser) (*models.AdminTokenResponse, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}

	return &models.AdminTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(h.accessTokenExpiry.Seconds()),
	}, nil
}

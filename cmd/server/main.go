package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/config"
	"github.com/soltur/backoffice/internal/database"
	"github.com/soltur/backoffice/internal/handlers"
	"github.com/soltur/backoffice/internal/middleware"
	"github.com/soltur/backoffice/internal/services"
	"github.com/soltur/backoffice/internal/utils"
	"github.com/soltur/backoffice/pkg/jwt"
	"github.com/soltur/backoffice/pkg/mailer"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Soltur Booking Intake Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories need *sqlx.DB, db is the DB interface
	pgDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	// Initialize repositories
	tripRepository := database.NewTripRepository(pgDB.DB)
	bookingRepository := database.NewBookingRepository(pgDB.DB, logger)
	participantRepository := database.NewParticipantRepository(pgDB.DB)
	agreementRepository := database.NewAgreementRepository(pgDB.DB)
	adminUserRepository := database.NewAdminUserRepository(pgDB.DB)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})

	agreementService := services.NewAgreementService(&cfg.PDF, logger)
	paymentService := services.NewP24Service(&cfg.Payment, logger)
	if paymentService.IsConfigured() {
		logger.Infof("Payment gateway initialized (%s)", cfg.Payment.Environment)
	} else {
		logger.Info("Payment gateway not configured, bookings will skip the payment step")
	}

	intakeService := services.NewBookingIntakeService(
		tripRepository,
		bookingRepository,
		participantRepository,
		agreementRepository,
		agreementService,
		smtpMailer,
		paymentService,
		cfg.Booking,
		logger,
	)

	logger.Info("Services initialized")

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(intakeService, logger)
	paymentWebhookHandler := handlers.NewPaymentWebhookHandler(intakeService, logger)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminUserRepository, jwtService, cfg.JWT.AccessTokenExpiry, logger)
	tripHandler := handlers.NewTripHandler(tripRepository, logger)
	adminBookingHandler := handlers.NewAdminBookingHandler(
		bookingRepository,
		participantRepository,
		agreementRepository,
		intakeService,
		logger,
	)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public booking intake and self-service lookup
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/:token", bookingHandler.GetBooking)
		}

		// Payment gateway webhook (signature-verified, no auth)
		v1.POST("/payments/notify", paymentWebhookHandler.Notify)

		// Admin panel routes
		admin := v1.Group("/admin")
		{
			auth := admin.Group("/auth")
			{
				auth.POST("/login", adminAuthHandler.Login)
				auth.POST("/refresh", adminAuthHandler.Refresh)
			}

			// Protected routes (require JWT authentication)
			protected := admin.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.POST("/trips", tripHandler.CreateTrip)
				protected.GET("/trips", tripHandler.ListTrips)
				protected.GET("/trips/:id", tripHandler.GetTrip)
				protected.PATCH("/trips/:id", tripHandler.UpdateTrip)
				protected.DELETE("/trips/:id", tripHandler.DeactivateTrip)

				protected.POST("/bookings", adminBookingHandler.CreateBooking)
				protected.GET("/bookings", adminBookingHandler.ListBookings)
				protected.GET("/bookings/:id", adminBookingHandler.GetBooking)
				protected.PATCH("/bookings/:id/status", adminBookingHandler.UpdateStatus)
				protected.PATCH("/bookings/:id/notes", adminBookingHandler.UpdateNotes)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         utils.GetRealIP(c),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if admin, exists := c.Get(middleware.AdminContextKey); exists {
			fields["admin"] = admin
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}

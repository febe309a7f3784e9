package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration (admin panel auth)
	JWT JWTConfig

	// CORS configuration
	CORS CORSConfig

	// SMTP configuration (confirmation emails)
	SMTP SMTPConfig

	// PDF renderer configuration (agreement generation)
	PDF PDFConfig

	// Payment gateway configuration
	Payment PaymentConfig

	// Booking configuration (public booking page)
	Booking BookingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SMTPConfig holds SMTP mailer configuration
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string // sender address, e.g. rezerwacje@soltur.pl
	FromName string // display name on outgoing mail
}

// PDFConfig holds agreement renderer configuration
type PDFConfig struct {
	RendererURL string // external HTTP renderer; empty disables the remote path
	APIKey      string
	Fallback    string // "local" renders a placeholder with gofpdf, "none" skips the attachment
	Timeout     time.Duration
}

// PaymentConfig holds hosted payment page (Przelewy24) configuration
type PaymentConfig struct {
	Environment string // "sandbox" or "production"
	MerchantID  string
	PosID       string
	CRCKey      string // secret used for the sign calculation, never sent to the client
	ReturnURL   string // where the customer lands after payment; booking URL preferred when available
	NotifyURL   string // server webhook for payment status notifications
}

// BookingConfig holds public booking page configuration
type BookingConfig struct {
	PublicBaseURL string // base for customer self-service links, e.g. https://soltur.pl
	Currency      string // ISO currency code for payment sessions
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
			RefreshTokenExpiry: time.Duration(getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY", 604800)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Soltur Rezerwacje"),
		},
		PDF: PDFConfig{
			RendererURL: getEnv("PDF_RENDERER_URL", ""),
			APIKey:      getEnv("PDF_RENDERER_API_KEY", ""),
			Fallback:    getEnv("AGREEMENT_FALLBACK", "local"),
			Timeout:     time.Duration(getEnvAsInt("PDF_RENDERER_TIMEOUT", 30)) * time.Second,
		},
		Payment: PaymentConfig{
			Environment: getEnv("P24_ENVIRONMENT", "sandbox"),
			MerchantID:  getEnv("P24_MERCHANT_ID", ""),
			PosID:       getEnv("P24_POS_ID", ""),
			CRCKey:      getEnv("P24_CRC_KEY", ""),
			ReturnURL:   getEnv("P24_RETURN_URL", ""),
			NotifyURL:   getEnv("P24_NOTIFY_URL", ""),
		},
		Booking: BookingConfig{
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "https://soltur.pl"),
			Currency:      getEnv("BOOKING_CURRENCY", "PLN"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	if c.Server.Environment == "production" {
		if c.SMTP.Host == "" || c.SMTP.From == "" {
			return fmt.Errorf("SMTP_HOST and SMTP_FROM are required in production mode")
		}
		if c.Payment.MerchantID != "" && c.Payment.CRCKey == "" {
			return fmt.Errorf("P24_CRC_KEY is required when P24_MERCHANT_ID is set")
		}
	}

	if c.PDF.Fallback != "local" && c.PDF.Fallback != "none" {
		return fmt.Errorf("AGREEMENT_FALLBACK must be \"local\" or \"none\"")
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsSlice gets an environment variable as a comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

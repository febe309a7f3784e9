package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/soltur/backoffice/internal/models"
)

// AdminUserRepository handles admin account database operations
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByEmail returns an active admin account by email. Returns nil when no
// active account matches.
func (r *AdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var user models.AdminUser
	query := `
		SELECT id, email, password_hash, full_name, is_active,
		       last_login_at, created_at, updated_at
		FROM admin_users
		WHERE LOWER(email) = LOWER($1) AND is_active = true`

	err := r.db.Get(&user, query, strings.TrimSpace(email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	return &user, nil
}

// GetByID returns an admin account by id. Returns nil when not found.
func (r *AdminUserRepository) GetByID(id uuid.UUID) (*models.AdminUser, error) {
	var user models.AdminUser
	query := `
		SELECT id, email, password_hash, full_name, is_active,
		       last_login_at, created_at, updated_at
		FROM admin_users
		WHERE id = $1`

	err := r.db.Get(&user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	return &user, nil
}

// TouchLastLogin records a successful login
func (r *AdminUserRepository) TouchLastLogin(id uuid.UUID) error {
	if _, err := r.db.Exec(
		`UPDATE admin_users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`,
		id,
	); err != nil {
		return fmt.Errorf("failed to record last login: %w", err)
	}
	return nil
}

package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminColumns() []string {
	return []string{
		"id", "email", "password_hash", "full_name", "is_active",
		"last_login_at", "created_at", "updated_at",
	}
}

func TestAdminGetByEmail_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminUserRepository(db)

	adminID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM admin_users").
		WithArgs("anna.kowalska@soltur.pl").
		WillReturnRows(sqlmock.NewRows(adminColumns()).
			AddRow(adminID, "anna.kowalska@soltur.pl", "$2a$10$hash", "Anna Kowalska", true, nil, now, now))

	user, err := repo.GetByEmail("anna.kowalska@soltur.pl")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, adminID, user.ID)
	assert.Equal(t, "Anna Kowalska", user.FullName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminGetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminUserRepository(db)

	mock.ExpectQuery("FROM admin_users").
		WithArgs("nobody@soltur.pl").
		WillReturnRows(sqlmock.NewRows(adminColumns()))

	user, err := repo.GetByEmail("nobody@soltur.pl")
	require.NoError(t, err)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTouchLastLogin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminUserRepository(db)

	adminID := uuid.New()

	mock.ExpectExec("UPDATE admin_users").
		WithArgs(adminID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.TouchLastLogin(adminID)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

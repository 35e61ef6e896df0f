package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, nil)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"user_id", "first_name", "first_last_name", "email", "password_hash", "role_id", "user_status", "created_at", "updated_at", "role.role_id", "role.role_name"}).
		AddRow(1, "Ana", "Rojas", "ana@example.com", "hash", 1, true, now, now, 1, "Administrator")
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN roles r ON r.role_id = t.role_id WHERE LOWER(t.email) = LOWER($1) LIMIT 1`)).
		WithArgs("Ana@Example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "hash", user.PasswordHash)
	require.NotNil(t, user.Role)
	assert.Equal(t, "Administrator", user.Role.RoleName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, nil)

	mock.ExpectQuery("WHERE LOWER").WithArgs("missing@example.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

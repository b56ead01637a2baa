package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestUserRepositoryCreate(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "hash", "Alice", "GB").
		WillReturnRows(pgxmock.NewRows([]string{"id", "is_email_verified", "created_at", "updated_at"}).
			AddRow("u-1", false, now, now))

	u := &entity.User{Email: "alice@example.com", Password: "hash", FirstName: "Alice", CountryCode: "GB"}
	require.NoError(t, repo.Create(context.Background(), u))

	assert.Equal(t, "u-1", u.ID)
	assert.False(t, u.IsEmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "hash", "Alice", "GB").
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: apperrors.UsersEmailConstraint,
		})

	u := &entity.User{Email: "alice@example.com", Password: "hash", FirstName: "Alice", CountryCode: "GB"}
	err := repo.Create(context.Background(), u)

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByEmailNormalizes(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "email", "password_hash", "first_name", "country_code",
			"is_email_verified", "last_active", "created_at", "updated_at",
		}).AddRow("u-1", "alice@example.com", "hash", "Alice", "GB", true, nil, now, now))

	u, err := repo.GetByEmail(context.Background(), "  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.True(t, u.IsEmailVerified)
	assert.Nil(t, u.LastActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdatePasswordMissingUser(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("newhash", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePassword(context.Background(), "missing", "newhash")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySetEmailVerified(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.SetEmailVerified(context.Background(), "u-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

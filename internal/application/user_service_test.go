package application

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LewisCM14/allotment-sub001/config"
	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/infrastructure/postgres"
	"github.com/LewisCM14/allotment-sub001/internal/tokens"
)

func testConfig() *config.Config {
	return &config.Config{
		MailSendEnabled:  false,
		VerifyEmailURL:   "http://localhost:3000/verify-email",
		ResetPasswordURL: "http://localhost:3000/reset-password",
	}
}

func newUserService(t *testing.T, repo *fakeUserRepo) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	codec := testCodec(t)
	uow := postgres.NewManager(mock, nil, 0)
	auth := NewAuthService(repo, codec, nil)
	return NewUserService(uow, repo, auth, codec, nil, nil, testConfig(), nil), mock
}

func TestRegister(t *testing.T) {
	svc, mock := newUserService(t, newFakeUserRepo())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", pgxmock.AnyArg(), "Alice", "GB").
		WillReturnRows(pgxmock.NewRows([]string{"id", "is_email_verified", "created_at", "updated_at"}).
			AddRow("u-1", false, now, now))
	mock.ExpectQuery("INSERT INTO user_preferences").
		WithArgs("u-1", "sunday", "sunday").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	u, pair, err := svc.Register(context.Background(), "req-1", RegisterInput{
		Email:       "  Alice@Example.COM ",
		Password:    "pa55word!",
		FirstName:   "Alice",
		CountryCode: "GB",
	})
	require.NoError(t, err)

	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "alice@example.com", u.Email, "email is stored normalized")
	assert.NotEqual(t, "pa55word!", u.Password, "password is stored hashed")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newUserService(t, newFakeUserRepo())

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", pgxmock.AnyArg(), "Alice", "GB").
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: apperrors.UsersEmailConstraint,
		})
	mock.ExpectRollback()

	_, _, err := svc.Register(context.Background(), "req-1", RegisterInput{
		Email:       "alice@example.com",
		Password:    "pa55word!",
		FirstName:   "Alice",
		CountryCode: "GB",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyEmail(t *testing.T) {
	svc, mock := newUserService(t, newFakeUserRepo())
	now := time.Now()

	tok, _, err := svc.Codec.Issue("u-1", tokens.KindVerification, 0)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "email", "password_hash", "first_name", "country_code",
			"is_email_verified", "last_active", "created_at", "updated_at",
		}).AddRow("u-1", "alice@example.com", "hash", "Alice", "GB", true, nil, now, now))
	mock.ExpectCommit()

	u, err := svc.VerifyEmail(context.Background(), "req-1", tok, false)
	require.NoError(t, err)
	assert.True(t, u.IsEmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyEmailRejectsWrongKind(t *testing.T) {
	svc, mock := newUserService(t, newFakeUserRepo())

	for _, kind := range []tokens.Kind{tokens.KindAccess, tokens.KindRefresh, tokens.KindReset} {
		tok, _, err := svc.Codec.Issue("u-1", kind, 0)
		require.NoError(t, err)
		_, err = svc.VerifyEmail(context.Background(), "req-1", tok, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "kind %s", kind)
	}
	// no transaction may be opened for a rejected token
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPassword(t *testing.T) {
	svc, mock := newUserService(t, newFakeUserRepo())

	tok, _, err := svc.Codec.Issue("u-1", tokens.KindReset, 0)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").
		WithArgs(pgxmock.AnyArg(), "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, svc.ResetPassword(context.Background(), "req-1", tok, "n3w-pa55word"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordRejectsWrongKind(t *testing.T) {
	svc, mock := newUserService(t, newFakeUserRepo())

	tok, _, err := svc.Codec.Issue("u-1", tokens.KindVerification, 0)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "req-1", tok, "n3w-pa55word")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, _ := newUserService(t, newFakeUserRepo())

	// unknown email reads as success so the endpoint cannot enumerate accounts
	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
}

func TestRequestPasswordResetKnownEmail(t *testing.T) {
	repo := newFakeUserRepo(&entity.User{
		ID: "u-1", Email: "alice@example.com", FirstName: "Alice", IsEmailVerified: true,
	})
	svc, _ := newUserService(t, repo)

	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))
}

func TestRequestVerificationIdempotent(t *testing.T) {
	repo := newFakeUserRepo(&entity.User{
		ID: "u-1", Email: "alice@example.com", FirstName: "Alice", IsEmailVerified: true,
	})
	svc, _ := newUserService(t, repo)

	already, err := svc.RequestVerification(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, already)
}

func TestVerificationStatus(t *testing.T) {
	repo := newFakeUserRepo(&entity.User{
		ID: "u-1", Email: "alice@example.com", IsEmailVerified: true,
	})
	svc, _ := newUserService(t, repo)

	verified, err := svc.VerificationStatus(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, verified)

	_, err = svc.VerificationStatus(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, mock := newUserService(t, newFakeUserRepo())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "email", "password_hash", "first_name", "country_code",
			"is_email_verified", "last_active", "created_at", "updated_at",
		}).AddRow("u-1", "alice@example.com", "hash", "Alice", "GB", true, nil, now, now))
	mock.ExpectExec("UPDATE users").
		WithArgs("Alicia", "GB", "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	// empty CountryCode keeps the stored value
	u, err := svc.UpdateProfile(context.Background(), "req-1", "u-1", UpdateProfileInput{FirstName: "Alicia"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.FirstName)
	assert.Equal(t, "GB", u.CountryCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

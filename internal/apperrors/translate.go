package apperrors

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/LewisCM14/allotment-sub001/pkg/redact"
)

// UsersEmailConstraint is the unique constraint backing account email
// uniqueness; see db/migrations.
const UsersEmailConstraint = "users_email_key"

// FromPostgres translates a pgx/pgconn error into the domain taxonomy.
// Errors already in the taxonomy pass through unchanged so translation
// happens at most once. nil stays nil.
func FromPostgres(err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		// Repos raise their own typed not-found; this is a fallback for
		// callers that query directly.
		return NotFound("resource", "")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == UsersEmailConstraint {
			return ErrEmailAlreadyRegistered
		}
		if pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return ErrDatabaseIntegrity
		}
	}
	return &BusinessLogicError{Msg: redact.Message(err.Error()), Err: err}
}

// Wrap returns err unchanged when it is already a domain error, otherwise
// wraps it once into a BusinessLogicError with a redacted message.
func Wrap(err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	return &BusinessLogicError{Msg: redact.Message(err.Error()), Err: err}
}

// Package apperrors defines the closed set of domain errors the service
// raises, plus translation from low-level persistence and token failures.
// Every error reaching a handler is one of these kinds; handlers map them
// to HTTP statuses with Status.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials covers every authentication mismatch: unknown
	// email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers bad signatures, malformed tokens, missing
	// claims and kind mismatches.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is distinct from ErrInvalidToken so callers can offer
	// a "request a new link" flow.
	ErrExpiredToken = errors.New("token has expired")

	// ErrEmailAlreadyRegistered is raised when the users email unique
	// constraint is violated at registration.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrUserNotFound is raised when an account lookup by id or email
	// comes back empty after a structurally valid token.
	ErrUserNotFound = errors.New("user not found")

	// ErrDatabaseIntegrity covers integrity violations other than the
	// email unique constraint.
	ErrDatabaseIntegrity = errors.New("database integrity error")

	// ErrTxClosed is returned when a unit of work is used after it has
	// committed or rolled back.
	ErrTxClosed = errors.New("unit of work already closed")
)

// ResourceNotFoundError is the generic lookup-not-found reused across
// entity types.
type ResourceNotFoundError struct {
	Resource string
	ID       string
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a ResourceNotFoundError.
func NotFound(resource, id string) error {
	return &ResourceNotFoundError{Resource: resource, ID: id}
}

// BusinessLogicError wraps a genuinely unexpected failure once at the
// nearest boundary. The message is sanitized before it is stored or logged.
type BusinessLogicError struct {
	Msg string
	Err error
}

func (e *BusinessLogicError) Error() string {
	return e.Msg
}

func (e *BusinessLogicError) Unwrap() error {
	return e.Err
}

// IsDomain reports whether err already belongs to the closed taxonomy, so
// boundaries never wrap a translated error a second time.
func IsDomain(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range []error{
		ErrInvalidCredentials,
		ErrInvalidToken,
		ErrExpiredToken,
		ErrEmailAlreadyRegistered,
		ErrUserNotFound,
		ErrDatabaseIntegrity,
		ErrTxClosed,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	var nf *ResourceNotFoundError
	var ble *BusinessLogicError
	return errors.As(err, &nf) || errors.As(err, &ble)
}

// Status maps a domain error to its HTTP status code. Unknown errors map
// to 500 (they should have been wrapped into BusinessLogicError already).
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailAlreadyRegistered),
		errors.Is(err, ErrDatabaseIntegrity):
		return http.StatusConflict
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	}
	var nf *ResourceNotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

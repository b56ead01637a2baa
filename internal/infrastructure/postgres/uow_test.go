package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
)

func newMockManager(t *testing.T) (pgxmock.PgxPoolIface, *Manager) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewManager(mock, nil, 0)
}

func TestDoCommitsOnSuccess(t *testing.T) {
	mock, m := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err := m.Do(context.Background(), "req-1", func(ctx context.Context, uow *UnitOfWork) error {
		called = true
		assert.Equal(t, "req-1", uow.RequestID())
		assert.NotNil(t, uow.Users)
		assert.NotNil(t, uow.Preferences)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoRollsBackOnError(t *testing.T) {
	mock, m := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := m.Do(context.Background(), "req-1", func(ctx context.Context, uow *UnitOfWork) error {
		return boom
	})

	// non-domain errors are wrapped exactly once
	var ble *apperrors.BusinessLogicError
	require.ErrorAs(t, err, &ble)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoPassesDomainErrorsThrough(t *testing.T) {
	mock, m := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := m.Do(context.Background(), "req-1", func(ctx context.Context, uow *UnitOfWork) error {
		return apperrors.ErrEmailAlreadyRegistered
	})

	assert.Equal(t, apperrors.ErrEmailAlreadyRegistered, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoTranslatesCommitFailure(t *testing.T) {
	mock, m := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: apperrors.UsersEmailConstraint,
	})

	err := m.Do(context.Background(), "req-1", func(ctx context.Context, uow *UnitOfWork) error {
		return nil
	})

	// deferred-constraint races surface at commit and are still translated
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoReturnsBeginFailure(t *testing.T) {
	mock, m := newMockManager(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	err := m.Do(context.Background(), "req-1", func(ctx context.Context, uow *UnitOfWork) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})

	var ble *apperrors.BusinessLogicError
	assert.ErrorAs(t, err, &ble)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoRollsBackOnPanic(t *testing.T) {
	mock, m := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = m.Do(context.Background(), "req-1", func(ctx context.Context, uow *UnitOfWork) error {
			panic("kaboom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWorkSingleUse(t *testing.T) {
	mock, m := newMockManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var captured *UnitOfWork
	err := m.Do(context.Background(), "req-1", func(ctx context.Context, uow *UnitOfWork) error {
		captured = uow
		return nil
	})
	require.NoError(t, err)

	// the scope is closed after Do returns
	assert.ErrorIs(t, captured.commit(context.Background()), apperrors.ErrTxClosed)
	assert.ErrorIs(t, captured.rollback(context.Background()), apperrors.ErrTxClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

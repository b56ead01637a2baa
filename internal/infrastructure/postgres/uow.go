package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
)

// TxBeginner is satisfied by *pgxpool.Pool (and by pgxmock in tests).
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type uowState int

const (
	stateIdle uowState = iota
	stateActive
	stateCommitting
	stateRollingBack
	stateClosed
)

// UnitOfWork is a single-use transactional scope. All repositories it
// exposes are bound to one pgx transaction; the scope commits on normal
// exit and rolls back on any error. One instance is one transaction:
// re-entry is not supported and no operation is valid after close.
type UnitOfWork struct {
	tx        pgx.Tx
	state     uowState
	requestID string

	Users       *UserRepository
	Allotments  *AllotmentRepository
	GrowGuide   *GrowGuideRepository
	Varieties   *ActiveVarietyRepository
	Preferences *PreferenceRepository
}

// RequestID returns the correlation id captured when the scope opened.
func (u *UnitOfWork) RequestID() string { return u.requestID }

func (u *UnitOfWork) commit(ctx context.Context) error {
	if u.state != stateActive {
		return apperrors.ErrTxClosed
	}
	u.state = stateCommitting
	err := u.tx.Commit(ctx)
	u.state = stateClosed
	return err
}

func (u *UnitOfWork) rollback(ctx context.Context) error {
	if u.state != stateActive {
		return apperrors.ErrTxClosed
	}
	u.state = stateRollingBack
	err := u.tx.Rollback(ctx)
	u.state = stateClosed
	return err
}

// Manager opens units of work against the pool. It owns the
// commit-or-rollback policy and the exactly-once error translation at the
// transaction boundary.
type Manager struct {
	db     TxBeginner
	logger *logrus.Logger
	slowOp time.Duration
}

func NewManager(db TxBeginner, logger *logrus.Logger, slowOp time.Duration) *Manager {
	return &Manager{db: db, logger: logger, slowOp: slowOp}
}

// Do runs fn inside a fresh unit of work.
//
// On normal return the transaction commits; a commit-time failure (rare
// integrity race) is translated and returned after the implicit rollback.
// On error or panic the transaction rolls back and the original error is
// re-raised: errors already in the domain taxonomy pass through untouched,
// anything else is wrapped exactly once into a BusinessLogicError with a
// redacted log line. Operations slower than the configured threshold log a
// warning; nothing is cancelled.
func (m *Manager) Do(ctx context.Context, requestID string, fn func(ctx context.Context, uow *UnitOfWork) error) (err error) {
	start := time.Now()
	tx, err := m.db.Begin(ctx)
	if err != nil {
		helpers.LogError(m.logger, "begin transaction failed", err, logrus.Fields{"request_id": requestID})
		return apperrors.Wrap(err)
	}

	uow := &UnitOfWork{
		tx:          tx,
		state:       stateActive,
		requestID:   requestID,
		Users:       NewUserRepository(tx),
		Allotments:  NewAllotmentRepository(tx),
		GrowGuide:   NewGrowGuideRepository(tx),
		Varieties:   NewActiveVarietyRepository(tx),
		Preferences: NewPreferenceRepository(tx),
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.rollback(ctx)
			panic(p)
		}
		if d := time.Since(start); m.slowOp > 0 && d > m.slowOp {
			helpers.LogWarn(m.logger, "slow unit of work", nil, logrus.Fields{
				"request_id": requestID,
				"elapsed":    d.String(),
			})
		}
	}()

	if err = fn(ctx, uow); err != nil {
		if rbErr := uow.rollback(ctx); rbErr != nil {
			helpers.LogError(m.logger, "rollback failed", rbErr, logrus.Fields{"request_id": requestID})
		}
		if !apperrors.IsDomain(err) {
			helpers.LogError(m.logger, "unit of work failed", err, logrus.Fields{"request_id": requestID})
		}
		return apperrors.Wrap(err)
	}

	if err = uow.commit(ctx); err != nil {
		// Deferred constraints can surface integrity violations here.
		helpers.LogError(m.logger, "commit failed", err, logrus.Fields{"request_id": requestID})
		return apperrors.FromPostgres(err)
	}
	return nil
}

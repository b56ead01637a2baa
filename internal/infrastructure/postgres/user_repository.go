package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
)

// UserRepository is the pgx implementation of the account aggregate store.
// Every error leaving this type is already translated into the domain
// taxonomy.
type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, country_code, is_email_verified, last_active, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.CountryCode,
		&u.IsEmailVerified, &u.LastActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.FromPostgres(err)
	}
	return u, nil
}

// Create inserts a new account. Email must already be normalized by the
// caller; a duplicate surfaces as ErrEmailAlreadyRegistered.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, country_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_email_verified, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.CountryCode)

	if err := row.Scan(&u.ID, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return apperrors.FromPostgres(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, entity.NormalizeEmail(email)))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name = $1, country_code = $2, updated_at = now()
		WHERE id = $3
	`, u.FirstName, u.CountryCode, u.ID)
	if err != nil {
		return apperrors.FromPostgres(err)
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return apperrors.FromPostgres(err)
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetEmailVerified flips the monotonic verification flag. Re-verifying an
// already-verified account is a no-op, not an error.
func (r *UserRepository) SetEmailVerified(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_email_verified = TRUE, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return apperrors.FromPostgres(err)
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastActive(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET last_active = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return apperrors.FromPostgres(err)
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

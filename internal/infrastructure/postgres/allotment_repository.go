package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
)

type AllotmentRepository struct {
	db Querier
}

func NewAllotmentRepository(db Querier) *AllotmentRepository {
	return &AllotmentRepository{db: db}
}

func (r *AllotmentRepository) GetByUser(ctx context.Context, userID string) (*entity.Allotment, error) {
	a := &entity.Allotment{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, postal_zip_code, width_meters, length_meters, created_at, updated_at
		FROM allotments
		WHERE user_id = $1
	`, userID).Scan(&a.ID, &a.UserID, &a.PostalZipCode, &a.WidthMeters, &a.LengthMeters, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("allotment", "")
		}
		return nil, apperrors.FromPostgres(err)
	}
	return a, nil
}

func (r *AllotmentRepository) Create(ctx context.Context, a *entity.Allotment) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO allotments (user_id, postal_zip_code, width_meters, length_meters)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, a.UserID, a.PostalZipCode, a.WidthMeters, a.LengthMeters)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return apperrors.FromPostgres(err)
	}
	return nil
}

func (r *AllotmentRepository) Update(ctx context.Context, a *entity.Allotment) error {
	res, err := r.db.Exec(ctx, `
		UPDATE allotments
		SET postal_zip_code = $1, width_meters = $2, length_meters = $3, updated_at = now()
		WHERE user_id = $4
	`, a.PostalZipCode, a.WidthMeters, a.LengthMeters, a.UserID)
	if err != nil {
		return apperrors.FromPostgres(err)
	}
	if res.RowsAffected() == 0 {
		return apperrors.NotFound("allotment", "")
	}
	return nil
}

var _ repository.AllotmentRepository = (*AllotmentRepository)(nil)

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
)

type PreferenceRepository struct {
	db Querier
}

func NewPreferenceRepository(db Querier) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) GetByUser(ctx context.Context, userID string) (*entity.Preferences, error) {
	p := &entity.Preferences{}
	err := r.db.QueryRow(ctx, `
		SELECT user_id, feed_day, water_day, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.FeedDay, &p.WaterDay, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("preferences", "")
		}
		return nil, apperrors.FromPostgres(err)
	}
	return p, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, p *entity.Preferences) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO user_preferences (user_id, feed_day, water_day)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET feed_day = EXCLUDED.feed_day, water_day = EXCLUDED.water_day, updated_at = now()
		RETURNING updated_at
	`, p.UserID, p.FeedDay, p.WaterDay)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		return apperrors.FromPostgres(err)
	}
	return nil
}

var _ repository.PreferenceRepository = (*PreferenceRepository)(nil)

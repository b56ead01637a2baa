package postgres

import (
	"context"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
)

// ActiveVarietyRepository tracks per-user active varieties.
type ActiveVarietyRepository struct {
	db Querier
}

func NewActiveVarietyRepository(db Querier) *ActiveVarietyRepository {
	return &ActiveVarietyRepository{db: db}
}

func (r *ActiveVarietyRepository) ListByUser(ctx context.Context, userID string) ([]entity.ActiveVariety, error) {
	rows, err := r.db.Query(ctx, `
		SELECT av.id, av.user_id, av.variety_id, v.name, av.quantity,
		       v.water_frequency_days, v.feed_frequency_days, v.feed_name
		FROM active_varieties av
		JOIN varieties v ON v.id = av.variety_id
		WHERE av.user_id = $1
		ORDER BY v.name
	`, userID)
	if err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	defer rows.Close()

	var out []entity.ActiveVariety
	for rows.Next() {
		var av entity.ActiveVariety
		if err := rows.Scan(&av.ID, &av.UserID, &av.VarietyID, &av.VarietyName, &av.Quantity,
			&av.WaterFrequencyDays, &av.FeedFrequencyDays, &av.FeedName); err != nil {
			return nil, apperrors.FromPostgres(err)
		}
		out = append(out, av)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	return out, nil
}

// Activate inserts an active-variety row. Re-activating the same variety
// updates the quantity instead of duplicating the row.
func (r *ActiveVarietyRepository) Activate(ctx context.Context, av *entity.ActiveVariety) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO active_varieties (user_id, variety_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, variety_id) DO UPDATE SET quantity = EXCLUDED.quantity
		RETURNING id
	`, av.UserID, av.VarietyID, av.Quantity)
	if err := row.Scan(&av.ID); err != nil {
		return apperrors.FromPostgres(err)
	}
	return nil
}

func (r *ActiveVarietyRepository) Deactivate(ctx context.Context, userID, varietyID string) error {
	res, err := r.db.Exec(ctx, `
		DELETE FROM active_varieties
		WHERE user_id = $1 AND variety_id = $2
	`, userID, varietyID)
	if err != nil {
		return apperrors.FromPostgres(err)
	}
	if res.RowsAffected() == 0 {
		return apperrors.NotFound("active variety", varietyID)
	}
	return nil
}

var _ repository.ActiveVarietyRepository = (*ActiveVarietyRepository)(nil)

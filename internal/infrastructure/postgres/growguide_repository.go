package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
)

// GrowGuideRepository serves the read-only reference tables seeded by
// cmd/seed.
type GrowGuideRepository struct {
	db Querier
}

func NewGrowGuideRepository(db Querier) *GrowGuideRepository {
	return &GrowGuideRepository{db: db}
}

func (r *GrowGuideRepository) ListBotanicalGroups(ctx context.Context) ([]entity.BotanicalGroup, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, recommended_rotation_years
		FROM botanical_groups
		ORDER BY name
	`)
	if err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	defer rows.Close()

	var groups []entity.BotanicalGroup
	byID := map[string]int{}
	for rows.Next() {
		var g entity.BotanicalGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.RecommendedRotationYears); err != nil {
			return nil, apperrors.FromPostgres(err)
		}
		byID[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.FromPostgres(err)
	}

	famRows, err := r.db.Query(ctx, `
		SELECT id, botanical_group_id, name
		FROM families
		ORDER BY name
	`)
	if err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	defer famRows.Close()
	for famRows.Next() {
		var f entity.Family
		if err := famRows.Scan(&f.ID, &f.BotanicalGroupID, &f.Name); err != nil {
			return nil, apperrors.FromPostgres(err)
		}
		if i, ok := byID[f.BotanicalGroupID]; ok {
			groups[i].Families = append(groups[i].Families, f)
		}
	}
	if err := famRows.Err(); err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	return groups, nil
}

func (r *GrowGuideRepository) GetFamily(ctx context.Context, id string) (*entity.Family, error) {
	f := &entity.Family{}
	err := r.db.QueryRow(ctx, `
		SELECT id, botanical_group_id, name
		FROM families
		WHERE id = $1
	`, id).Scan(&f.ID, &f.BotanicalGroupID, &f.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("family", id)
		}
		return nil, apperrors.FromPostgres(err)
	}

	f.Pests, err = r.listNames(ctx, `
		SELECT p.name FROM pests p
		JOIN family_pests fp ON fp.pest_id = p.id
		WHERE fp.family_id = $1
		ORDER BY p.name
	`, id)
	if err != nil {
		return nil, err
	}
	f.Diseases, err = r.listNames(ctx, `
		SELECT d.name FROM diseases d
		JOIN family_diseases fd ON fd.disease_id = d.id
		WHERE fd.family_id = $1
		ORDER BY d.name
	`, id)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *GrowGuideRepository) listNames(ctx context.Context, query, id string) ([]string, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, apperrors.FromPostgres(err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	return names, nil
}

const varietyColumns = `v.id, v.family_id, f.name, v.name, v.lifecycle,
	v.water_frequency_days, v.feed_frequency_days, v.feed_name,
	v.sow_week_start, v.sow_week_end, v.harvest_week_start, v.harvest_week_end`

func scanVariety(row pgx.Row) (*entity.Variety, error) {
	v := &entity.Variety{}
	err := row.Scan(&v.ID, &v.FamilyID, &v.FamilyName, &v.Name, &v.Lifecycle,
		&v.WaterFrequencyDays, &v.FeedFrequencyDays, &v.FeedName,
		&v.SowWeekStart, &v.SowWeekEnd, &v.HarvestWeekStart, &v.HarvestWeekEnd)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *GrowGuideRepository) GetVariety(ctx context.Context, id string) (*entity.Variety, error) {
	v, err := scanVariety(r.db.QueryRow(ctx, `
		SELECT `+varietyColumns+`
		FROM varieties v
		JOIN families f ON f.id = v.family_id
		WHERE v.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("variety", id)
		}
		return nil, apperrors.FromPostgres(err)
	}
	return v, nil
}

func (r *GrowGuideRepository) ListVarieties(ctx context.Context) ([]entity.Variety, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+varietyColumns+`
		FROM varieties v
		JOIN families f ON f.id = v.family_id
		ORDER BY v.name
	`)
	if err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	defer rows.Close()
	var out []entity.Variety
	for rows.Next() {
		v, err := scanVariety(rows)
		if err != nil {
			return nil, apperrors.FromPostgres(err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.FromPostgres(err)
	}
	return out, nil
}

var _ repository.GrowGuideRepository = (*GrowGuideRepository)(nil)

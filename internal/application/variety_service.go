package application

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
	"github.com/LewisCM14/allotment-sub001/internal/infrastructure/postgres"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
)

// VarietyService manages the user's active varieties. Activation touches
// two tables (the active-variety row plus the preferences bookkeeping), so
// writes run inside a unit of work.
type VarietyService struct {
	UoW       *postgres.Manager
	Varieties repository.ActiveVarietyRepository
	RDB       *redis.Client
}

func NewVarietyService(uow *postgres.Manager, varieties repository.ActiveVarietyRepository, rdb *redis.Client) *VarietyService {
	return &VarietyService{UoW: uow, Varieties: varieties, RDB: rdb}
}

// invalidateTasks drops the cached weekly task list; it is rebuilt on the
// next read.
func (s *VarietyService) invalidateTasks(ctx context.Context, userID string) {
	if s.RDB != nil {
		_ = helpers.RedisDel(ctx, s.RDB, keyWeeklyTasks(userID))
	}
}

func (s *VarietyService) ListActive(ctx context.Context, userID string) ([]entity.ActiveVariety, error) {
	return s.Varieties.ListByUser(ctx, userID)
}

// Activate marks a variety as actively grown by the user. The grow-guide
// lookup validates the variety id; preferences are touched in the same
// transaction so the derived task list is rebuilt from fresh data.
func (s *VarietyService) Activate(ctx context.Context, requestID, userID, varietyID string, quantity int) (*entity.ActiveVariety, error) {
	if quantity <= 0 {
		quantity = 1
	}
	av := &entity.ActiveVariety{UserID: userID, VarietyID: varietyID, Quantity: quantity}
	err := s.UoW.Do(ctx, requestID, func(ctx context.Context, uow *postgres.UnitOfWork) error {
		v, err := uow.GrowGuide.GetVariety(ctx, varietyID)
		if err != nil {
			return err
		}
		av.VarietyName = v.Name
		av.WaterFrequencyDays = v.WaterFrequencyDays
		av.FeedFrequencyDays = v.FeedFrequencyDays
		av.FeedName = v.FeedName
		if err := uow.Varieties.Activate(ctx, av); err != nil {
			return err
		}
		prefs, err := uow.Preferences.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		return uow.Preferences.Upsert(ctx, prefs)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateTasks(ctx, userID)
	return av, nil
}

// Deactivate removes a variety from the user's active list.
func (s *VarietyService) Deactivate(ctx context.Context, requestID, userID, varietyID string) error {
	err := s.UoW.Do(ctx, requestID, func(ctx context.Context, uow *postgres.UnitOfWork) error {
		return uow.Varieties.Deactivate(ctx, userID, varietyID)
	})
	if err != nil {
		return err
	}
	s.invalidateTasks(ctx, userID)
	return nil
}

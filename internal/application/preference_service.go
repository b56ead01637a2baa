package application

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
	"github.com/LewisCM14/allotment-sub001/internal/infrastructure/postgres"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
)

// PreferenceService manages per-user scheduling preferences.
type PreferenceService struct {
	UoW         *postgres.Manager
	Preferences repository.PreferenceRepository
	RDB         *redis.Client
}

func NewPreferenceService(uow *postgres.Manager, preferences repository.PreferenceRepository, rdb *redis.Client) *PreferenceService {
	return &PreferenceService{UoW: uow, Preferences: preferences, RDB: rdb}
}

func (s *PreferenceService) Get(ctx context.Context, userID string) (*entity.Preferences, error) {
	return s.Preferences.GetByUser(ctx, userID)
}

// Update upserts the preferences record. Day names are validated at the
// binding layer; the check constraint on user_preferences is the backstop.
func (s *PreferenceService) Update(ctx context.Context, requestID, userID, feedDay, waterDay string) (*entity.Preferences, error) {
	p := &entity.Preferences{UserID: userID, FeedDay: feedDay, WaterDay: waterDay}
	err := s.UoW.Do(ctx, requestID, func(ctx context.Context, uow *postgres.UnitOfWork) error {
		return uow.Preferences.Upsert(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	// the cached task list was derived from the old days
	if s.RDB != nil {
		_ = helpers.RedisDel(ctx, s.RDB, keyWeeklyTasks(userID))
	}
	return p, nil
}

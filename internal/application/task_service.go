package application

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
)

func keyWeeklyTasks(uid string) string { return "tasks:weekly:" + uid }

// TaskService derives the weekly task list from the user's active
// varieties and preferences. Derivation is pure; the result is cached in
// redis for an hour and invalidated implicitly by TTL.
type TaskService struct {
	Varieties   repository.ActiveVarietyRepository
	Preferences repository.PreferenceRepository
	RDB         *redis.Client
}

func NewTaskService(varieties repository.ActiveVarietyRepository, preferences repository.PreferenceRepository, rdb *redis.Client) *TaskService {
	return &TaskService{Varieties: varieties, Preferences: preferences, RDB: rdb}
}

// WeeklyTasks returns this week's feed and water jobs, Monday first.
func (s *TaskService) WeeklyTasks(ctx context.Context, userID string) ([]entity.WeeklyTask, error) {
	if s.RDB != nil {
		var cached []entity.WeeklyTask
		if ok, _ := helpers.RedisGetJSON(ctx, s.RDB, keyWeeklyTasks(userID), &cached); ok {
			return cached, nil
		}
	}

	active, err := s.Varieties.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.Preferences.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks := DeriveWeeklyTasks(active, prefs)

	if s.RDB != nil {
		_ = helpers.RedisSetJSON(ctx, s.RDB, keyWeeklyTasks(userID), tasks, time.Hour)
	}
	return tasks, nil
}

// DeriveWeeklyTasks computes the week's jobs:
//
//   - watering: daily-watered varieties (frequency <= 1 day) appear every
//     day; every-few-days varieties (<= 3 days) appear Monday, Thursday and
//     Saturday; anything less frequent lands on the preferred water day.
//   - feeding: varieties with a feed schedule appear once, on the preferred
//     feed day.
//
// Output ordering is deterministic: weekdays Monday first, varieties in the
// order given (repositories sort by name).
func DeriveWeeklyTasks(active []entity.ActiveVariety, prefs *entity.Preferences) []entity.WeeklyTask {
	tasks := make([]entity.WeeklyTask, 0, len(active)*2)
	for _, day := range entity.Weekdays {
		for _, av := range active {
			if waterDue(av.WaterFrequencyDays, day, prefs.WaterDay) {
				tasks = append(tasks, entity.WeeklyTask{
					Day:         day,
					Kind:        "water",
					VarietyName: av.VarietyName,
				})
			}
			if av.FeedFrequencyDays > 0 && day == prefs.FeedDay {
				tasks = append(tasks, entity.WeeklyTask{
					Day:         day,
					Kind:        "feed",
					VarietyName: av.VarietyName,
					Detail:      fmt.Sprintf("feed with %s", av.FeedName),
				})
			}
		}
	}
	return tasks
}

func waterDue(frequencyDays int, day, waterDay string) bool {
	switch {
	case frequencyDays <= 1:
		return true
	case frequencyDays <= 3:
		return day == "monday" || day == "thursday" || day == "saturday"
	default:
		return day == waterDay
	}
}

// Package repository defines the persistence interfaces for each aggregate.
// Implementations live in internal/infrastructure/postgres and can be bound
// either to the shared pool or to a unit-of-work transaction.
package repository

import (
	"context"

	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
)

// UserRepository covers the account aggregate.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetEmailVerified flips the verification flag. The flag is monotonic;
	// there is no operation to clear it.
	SetEmailVerified(ctx context.Context, id string) error
	UpdateLastActive(ctx context.Context, id string) error
}

// AllotmentRepository covers a user's plot record.
type AllotmentRepository interface {
	GetByUser(ctx context.Context, userID string) (*entity.Allotment, error)
	Create(ctx context.Context, a *entity.Allotment) error
	Update(ctx context.Context, a *entity.Allotment) error
}

// GrowGuideRepository serves the read-only reference data.
type GrowGuideRepository interface {
	ListBotanicalGroups(ctx context.Context) ([]entity.BotanicalGroup, error)
	GetFamily(ctx context.Context, id string) (*entity.Family, error)
	GetVariety(ctx context.Context, id string) (*entity.Variety, error)
	ListVarieties(ctx context.Context) ([]entity.Variety, error)
}

// ActiveVarietyRepository tracks which varieties a user currently grows.
type ActiveVarietyRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.ActiveVariety, error)
	Activate(ctx context.Context, av *entity.ActiveVariety) error
	Deactivate(ctx context.Context, userID, varietyID string) error
}

// PreferenceRepository covers per-user scheduling preferences.
type PreferenceRepository interface {
	GetByUser(ctx context.Context, userID string) (*entity.Preferences, error)
	Upsert(ctx context.Context, p *entity.Preferences) error
}

package application

import (
	"context"
	"errors"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
	"github.com/LewisCM14/allotment-sub001/internal/infrastructure/postgres"
)

// AllotmentService manages a user's plot record.
type AllotmentService struct {
	UoW        *postgres.Manager
	Allotments repository.AllotmentRepository
}

func NewAllotmentService(uow *postgres.Manager, allotments repository.AllotmentRepository) *AllotmentService {
	return &AllotmentService{UoW: uow, Allotments: allotments}
}

// Get returns the user's allotment, apperrors.ResourceNotFoundError when
// none exists yet.
func (s *AllotmentService) Get(ctx context.Context, userID string) (*entity.Allotment, error) {
	return s.Allotments.GetByUser(ctx, userID)
}

// AllotmentInput carries the writable allotment fields.
type AllotmentInput struct {
	PostalZipCode string
	WidthMeters   float64
	LengthMeters  float64
}

// Upsert creates the user's allotment or updates it in place. One record
// per user, so create-then-update is resolved inside one unit of work.
func (s *AllotmentService) Upsert(ctx context.Context, requestID, userID string, in AllotmentInput) (*entity.Allotment, error) {
	a := &entity.Allotment{
		UserID:        userID,
		PostalZipCode: in.PostalZipCode,
		WidthMeters:   in.WidthMeters,
		LengthMeters:  in.LengthMeters,
	}
	err := s.UoW.Do(ctx, requestID, func(ctx context.Context, uow *postgres.UnitOfWork) error {
		existing, err := uow.Allotments.GetByUser(ctx, userID)
		switch {
		case err == nil:
			a.ID = existing.ID
			a.CreatedAt = existing.CreatedAt
			return uow.Allotments.Update(ctx, a)
		case errors.As(err, new(*apperrors.ResourceNotFoundError)):
			return uow.Allotments.Create(ctx, a)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

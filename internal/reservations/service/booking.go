package service

import (
	"context"
	"errors"
	"sync"

	reserrors "roomly/internal/reservations/errors"
	"roomly/internal/reservations/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// BookingService is a read model. Bookings are only ever created by
// CompleteCheckout; there are no mutation operations to expose.
type BookingService interface {
	GetByID(ctx context.Context, userID string, id string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo repository.BookingRepository
	cfg  *config.Config
}

func NewBookingService(repo repository.BookingRepository, cfg *config.Config) BookingService {
	return &bookingService{repo: repo, cfg: cfg}
}

func (s *bookingService) GetByID(ctx context.Context, userID string, id string) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Sign in to book")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, reserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Booking", id)
		case errors.Is(err, reserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		default:
			return nil, apperrors.Internal("Failed to retrieve booking", err)
		}
	}

	if booking.UserID != userID {
		return nil, apperrors.Forbidden("This booking belongs to another user")
	}

	return booking, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.Unauthorized("Sign in to book")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

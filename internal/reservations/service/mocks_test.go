package service

import (
	"context"
	"io"
	"sync"
	"time"

	reserrors "roomly/internal/reservations/errors"
	"roomly/pkg/config"
	"roomly/pkg/logger"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/model"
)

func newTestConfig() *config.Config {
	return &config.Config{
		LockDuration:    48 * time.Hour,
		SessionDuration: 15 * time.Minute,
		SessionWarning:  2 * time.Minute,
		Log:             logger.New(logger.Config{Output: io.Discard}),
	}
}

type mockSlotRepo struct {
	FindByIDFunc            func(ctx context.Context, id string) (*model.Slot, error)
	FindLowestAvailableFunc func(ctx context.Context, listingID string) (*model.Slot, error)
	LockFunc                func(ctx context.Context, id string, userID string, until time.Time) error
	ReleaseFunc             func(ctx context.Context, id string, userID string) error
	FillFunc                func(ctx context.Context, id string, userID string) error
}

func (m *mockSlotRepo) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	if m.FindByIDFunc == nil {
		return nil, reserrors.ErrNotFound
	}
	return m.FindByIDFunc(ctx, id)
}

func (m *mockSlotRepo) FindLowestAvailable(ctx context.Context, listingID string) (*model.Slot, error) {
	if m.FindLowestAvailableFunc == nil {
		return nil, reserrors.ErrListingUnavailable
	}
	return m.FindLowestAvailableFunc(ctx, listingID)
}

func (m *mockSlotRepo) Lock(ctx context.Context, id string, userID string, until time.Time) error {
	if m.LockFunc == nil {
		return nil
	}
	return m.LockFunc(ctx, id, userID, until)
}

func (m *mockSlotRepo) Release(ctx context.Context, id string, userID string) error {
	if m.ReleaseFunc == nil {
		return nil
	}
	return m.ReleaseFunc(ctx, id, userID)
}

func (m *mockSlotRepo) Fill(ctx context.Context, id string, userID string) error {
	if m.FillFunc == nil {
		return nil
	}
	return m.FillFunc(ctx, id, userID)
}

type mockCommitmentRepo struct {
	CreateFunc           func(ctx context.Context, commitment *model.Commitment) error
	FindByIDFunc         func(ctx context.Context, id string) (*model.Commitment, error)
	FindActiveByUserFunc func(ctx context.Context, userID string) (*model.Commitment, error)
	FindStaleFunc        func(ctx context.Context, now time.Time, limit int) ([]*model.Commitment, error)
	CloseFunc            func(ctx context.Context, id string, toStatus string) error
}

func (m *mockCommitmentRepo) Create(ctx context.Context, commitment *model.Commitment) error {
	if m.CreateFunc == nil {
		commitment.ID = "665f000000000000000000c1"
		return nil
	}
	return m.CreateFunc(ctx, commitment)
}

func (m *mockCommitmentRepo) FindByID(ctx context.Context, id string) (*model.Commitment, error) {
	if m.FindByIDFunc == nil {
		return nil, reserrors.ErrNotFound
	}
	return m.FindByIDFunc(ctx, id)
}

func (m *mockCommitmentRepo) FindActiveByUser(ctx context.Context, userID string) (*model.Commitment, error) {
	if m.FindActiveByUserFunc == nil {
		return nil, reserrors.ErrNotFound
	}
	return m.FindActiveByUserFunc(ctx, userID)
}

func (m *mockCommitmentRepo) FindStale(ctx context.Context, now time.Time, limit int) ([]*model.Commitment, error) {
	if m.FindStaleFunc == nil {
		return nil, nil
	}
	return m.FindStaleFunc(ctx, now, limit)
}

func (m *mockCommitmentRepo) Close(ctx context.Context, id string, toStatus string) error {
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc(ctx, id, toStatus)
}

func (m *mockCommitmentRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockSessionRepo struct {
	CreateFunc           func(ctx context.Context, session *model.CheckoutSession) error
	FindByIDFunc         func(ctx context.Context, id string) (*model.CheckoutSession, error)
	FindActiveByUserFunc func(ctx context.Context, userID string) (*model.CheckoutSession, error)
	FindStaleFunc        func(ctx context.Context, now time.Time, limit int) ([]*model.CheckoutSession, error)
	CloseFunc            func(ctx context.Context, id string, toState string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.CheckoutSession) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, session)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.CheckoutSession, error) {
	if m.FindByIDFunc == nil {
		return nil, reserrors.ErrNotFound
	}
	return m.FindByIDFunc(ctx, id)
}

func (m *mockSessionRepo) FindActiveByUser(ctx context.Context, userID string) (*model.CheckoutSession, error) {
	if m.FindActiveByUserFunc == nil {
		return nil, reserrors.ErrNotFound
	}
	return m.FindActiveByUserFunc(ctx, userID)
}

func (m *mockSessionRepo) FindStale(ctx context.Context, now time.Time, limit int) ([]*model.CheckoutSession, error) {
	if m.FindStaleFunc == nil {
		return nil, nil
	}
	return m.FindStaleFunc(ctx, now, limit)
}

func (m *mockSessionRepo) Close(ctx context.Context, id string, toState string) error {
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc(ctx, id, toState)
}

func (m *mockSessionRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockBookingRepo struct {
	CreateFunc      func(ctx context.Context, booking *model.Booking) error
	FindByIDFunc    func(ctx context.Context, id string) (*model.Booking, error)
	FindByUserFunc  func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error)
	CountByUserFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if m.CreateFunc == nil {
		booking.ID = "665f000000000000000000b1"
		return nil
	}
	return m.CreateFunc(ctx, booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.FindByIDFunc == nil {
		return nil, reserrors.ErrNotFound
	}
	return m.FindByIDFunc(ctx, id)
}

func (m *mockBookingRepo) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
	if m.FindByUserFunc == nil {
		return nil, nil
	}
	return m.FindByUserFunc(ctx, userID, limit, offset)
}

func (m *mockBookingRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	if m.CountByUserFunc == nil {
		return 0, nil
	}
	return m.CountByUserFunc(ctx, userID)
}

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []model.ReservationEvent
}

func (e *recordingEmitter) Emit(ctx context.Context, event model.ReservationEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]string, 0, len(e.events))
	for _, event := range e.events {
		types = append(types, event.Type)
	}
	return types
}

type mockListingFetcher struct {
	FetchListingFunc func(ctx context.Context, id string) (*model.Listing, error)
}

func (m *mockListingFetcher) FetchListing(ctx context.Context, id string) (*model.Listing, error) {
	if m.FetchListingFunc == nil {
		return &model.Listing{
			ID:           id,
			MonthlyPrice: 1200,
			Currency:     "USD",
			LeaseMonths:  12,
		}, nil
	}
	return m.FetchListingFunc(ctx, id)
}

package service

import (
	"context"
	"io"

	listingserrors "roomly/internal/listings/errors"
	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

func newTestConfig() *config.Config {
	return &config.Config{
		MaxSlotsPerListing: 20,
		Log:                logger.New(logger.Config{Output: io.Discard}),
	}
}

type mockListingRepo struct {
	CreateFunc      func(ctx context.Context, listing *model.Listing) error
	FindByIDFunc    func(ctx context.Context, id string) (*model.Listing, error)
	UpdateFunc      func(ctx context.Context, id string, listing *model.Listing) error
	DeleteFunc      func(ctx context.Context, id string) error
	SearchFunc      func(ctx context.Context, city string, minPrice, maxPrice int64, limit int, offset int64) ([]*model.Listing, error)
	CountSearchFunc func(ctx context.Context, city string, minPrice, maxPrice int64) (int64, error)
}

func (m *mockListingRepo) Create(ctx context.Context, listing *model.Listing) error {
	if m.CreateFunc == nil {
		listing.ID = "665f0000000000000000001a"
		return nil
	}
	return m.CreateFunc(ctx, listing)
}

func (m *mockListingRepo) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	if m.FindByIDFunc == nil {
		return nil, listingserrors.ErrNotFound
	}
	return m.FindByIDFunc(ctx, id)
}

func (m *mockListingRepo) Update(ctx context.Context, id string, listing *model.Listing) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, id, listing)
}

func (m *mockListingRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

func (m *mockListingRepo) Search(ctx context.Context, city string, minPrice, maxPrice int64, limit int, offset int64) ([]*model.Listing, error) {
	if m.SearchFunc == nil {
		return nil, nil
	}
	return m.SearchFunc(ctx, city, minPrice, maxPrice, limit, offset)
}

func (m *mockListingRepo) CountSearch(ctx context.Context, city string, minPrice, maxPrice int64) (int64, error) {
	if m.CountSearchFunc == nil {
		return 0, nil
	}
	return m.CountSearchFunc(ctx, city, minPrice, maxPrice)
}

func (m *mockListingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockSlotRepo struct {
	CreateForListingFunc func(ctx context.Context, listingID string, totalSlots int) error
	CountsFunc           func(ctx context.Context, listingID string) (model.SlotCounts, error)
	CountInUseFunc       func(ctx context.Context, listingID string) (int64, error)
	DeleteByListingFunc  func(ctx context.Context, listingID string) error
}

func (m *mockSlotRepo) CreateForListing(ctx context.Context, listingID string, totalSlots int) error {
	if m.CreateForListingFunc == nil {
		return nil
	}
	return m.CreateForListingFunc(ctx, listingID, totalSlots)
}

func (m *mockSlotRepo) Counts(ctx context.Context, listingID string) (model.SlotCounts, error) {
	if m.CountsFunc == nil {
		return model.SlotCounts{}, nil
	}
	return m.CountsFunc(ctx, listingID)
}

func (m *mockSlotRepo) CountInUse(ctx context.Context, listingID string) (int64, error) {
	if m.CountInUseFunc == nil {
		return 0, nil
	}
	return m.CountInUseFunc(ctx, listingID)
}

func (m *mockSlotRepo) DeleteByListing(ctx context.Context, listingID string) error {
	if m.DeleteByListingFunc == nil {
		return nil
	}
	return m.DeleteByListingFunc(ctx, listingID)
}

type mockReservationReader struct {
	ActiveCommitmentFunc func(ctx context.Context, userID string) (*model.Commitment, error)
	ActiveSessionFunc    func(ctx context.Context, userID string) (*model.CheckoutSession, error)
}

func (m *mockReservationReader) ActiveCommitment(ctx context.Context, userID string) (*model.Commitment, error) {
	if m.ActiveCommitmentFunc == nil {
		return nil, nil
	}
	return m.ActiveCommitmentFunc(ctx, userID)
}

func (m *mockReservationReader) ActiveSession(ctx context.Context, userID string) (*model.CheckoutSession, error) {
	if m.ActiveSessionFunc == nil {
		return nil, nil
	}
	return m.ActiveSessionFunc(ctx, userID)
}

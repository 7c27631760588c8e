package service

import (
	"context"
	"net/http"
	"testing"

	"roomly/internal/listings/validator"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

const (
	testListingID = "665f0000000000000000001a"
	testOwnerID   = "owner-1"
)

func newListingService(repo *mockListingRepo, slots *mockSlotRepo) ListingService {
	cfg := newTestConfig()
	return NewListingService(repo, slots, validator.NewListingValidator(logger.New(logger.Config{}), cfg.MaxSlotsPerListing), cfg)
}

func validListing() *model.Listing {
	return &model.Listing{
		OwnerID:      testOwnerID,
		Title:        "  Sunny  room near campus ",
		Address:      "12 College Ave, Apt 3",
		City:         "  Boston ",
		MonthlyPrice: 950,
		Bedrooms:     3,
		Bathrooms:    1,
		LeaseMonths:  12,
		ContactPhone: "+1 (212) 555-1234",
		TotalSlots:   3,
	}
}

func TestCreateFansOutSlots(t *testing.T) {
	repo := &mockListingRepo{}
	var fannedListing string
	var fannedSlots int
	slots := &mockSlotRepo{
		CreateForListingFunc: func(ctx context.Context, listingID string, totalSlots int) error {
			fannedListing = listingID
			fannedSlots = totalSlots
			return nil
		},
	}
	svc := newListingService(repo, slots)

	listing := validListing()
	if err := svc.Create(context.Background(), listing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fannedListing != listing.ID || fannedSlots != 3 {
		t.Errorf("expected 3 slots for %q, got %d for %q", listing.ID, fannedSlots, fannedListing)
	}
	if listing.Title != "Sunny room near campus" {
		t.Errorf("expected sanitized title, got %q", listing.Title)
	}
	if listing.ContactPhone != "+12125551234" {
		t.Errorf("expected normalized phone, got %q", listing.ContactPhone)
	}
}

func TestCreateInfersLocaleDefaults(t *testing.T) {
	svc := newListingService(&mockListingRepo{}, &mockSlotRepo{})

	listing := validListing()
	if err := svc.Create(context.Background(), listing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listing.Currency != "USD" {
		t.Errorf("expected USD inferred from +1 phone, got %q", listing.Currency)
	}
	if listing.Country != "US" {
		t.Errorf("expected US inferred from +1 phone, got %q", listing.Country)
	}
}

func TestCreateRejectsTooManySlots(t *testing.T) {
	svc := newListingService(&mockListingRepo{}, &mockSlotRepo{})

	listing := validListing()
	listing.TotalSlots = 21

	err := svc.Create(context.Background(), listing)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestUpdateOwnerOnly(t *testing.T) {
	repo := &mockListingRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			listing := validListing()
			listing.ID = id
			return listing, nil
		},
	}
	svc := newListingService(repo, &mockSlotRepo{})

	err := svc.Update(context.Background(), "intruder", testListingID, &model.ListingUpdate{Title: "Hijacked"})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	var saved *model.Listing
	repo := &mockListingRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			listing := validListing()
			listing.ID = id
			listing.Title = "Old title"
			return listing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, listing *model.Listing) error {
			saved = listing
			return nil
		},
	}
	svc := newListingService(repo, &mockSlotRepo{})

	newPrice := int64(1100)
	err := svc.Update(context.Background(), testOwnerID, testListingID, &model.ListingUpdate{
		Title:        "Fresh title",
		MonthlyPrice: &newPrice,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected update to reach the repository")
	}
	if saved.Title != "Fresh title" || saved.MonthlyPrice != 1100 {
		t.Errorf("expected merged fields, got title=%q price=%d", saved.Title, saved.MonthlyPrice)
	}
	if saved.Address != "12 College Ave, Apt 3" {
		t.Errorf("untouched fields must survive the merge, got %q", saved.Address)
	}
}

func TestDeleteBlockedWhileSlotsInUse(t *testing.T) {
	repo := &mockListingRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			listing := validListing()
			listing.ID = id
			return listing, nil
		},
	}
	slots := &mockSlotRepo{
		CountInUseFunc: func(ctx context.Context, listingID string) (int64, error) {
			return 1, nil
		},
	}
	svc := newListingService(repo, slots)

	err := svc.Delete(context.Background(), testOwnerID, testListingID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestDeleteRemovesSlots(t *testing.T) {
	repo := &mockListingRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			listing := validListing()
			listing.ID = id
			return listing, nil
		},
	}
	slotsDeleted := false
	slots := &mockSlotRepo{
		DeleteByListingFunc: func(ctx context.Context, listingID string) error {
			slotsDeleted = true
			return nil
		},
	}
	svc := newListingService(repo, slots)

	if err := svc.Delete(context.Background(), testOwnerID, testListingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slotsDeleted {
		t.Error("expected slot documents to be deleted with the listing")
	}
}

func TestSearchReturnsCountAndPage(t *testing.T) {
	repo := &mockListingRepo{
		SearchFunc: func(ctx context.Context, city string, minPrice, maxPrice int64, limit int, offset int64) ([]*model.Listing, error) {
			return []*model.Listing{validListing(), validListing()}, nil
		},
		CountSearchFunc: func(ctx context.Context, city string, minPrice, maxPrice int64) (int64, error) {
			return 42, nil
		},
	}
	svc := newListingService(repo, &mockSlotRepo{})

	listings, total, err := svc.Search(context.Background(), "Boston", 0, 0, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 2 || total != 42 {
		t.Errorf("expected 2 results of 42, got %d of %d", len(listings), total)
	}
}

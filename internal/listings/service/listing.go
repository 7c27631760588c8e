package service

import (
	"context"
	"errors"
	"sync"

	listingserrors "roomly/internal/listings/errors"
	"roomly/internal/listings/repository"
	"roomly/internal/listings/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/locale"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type ListingService interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Update(ctx context.Context, userID string, id string, updates *model.ListingUpdate) error
	Delete(ctx context.Context, userID string, id string) error
	Search(ctx context.Context, city string, minPrice, maxPrice int64, limit int, offset int64) ([]*model.Listing, int64, error)
}

type listingService struct {
	repo      repository.ListingRepository
	slotRepo  repository.SlotRepository
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewListingService(
	repo repository.ListingRepository,
	slotRepo repository.SlotRepository,
	listingValidator *validator.ListingValidator,
	cfg *config.Config,
) ListingService {
	return &listingService{
		repo:      repo,
		slotRepo:  slotRepo,
		validator: listingValidator,
		cfg:       cfg,
	}
}

// Create inserts the listing and fans out its slot documents in one
// transaction, so capacity exists the moment the listing is visible.
func (s *listingService) Create(ctx context.Context, listing *model.Listing) error {
	s.sanitize(listing)
	s.applyDefaults(listing)

	if err := s.validator.Validate(listing); err != nil {
		s.cfg.Log.Warn("Listing validation failed", "error", err)
		return apperrors.Validation("Invalid listing input", map[string]any{"error": err.Error()})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, listing); err != nil {
			return apperrors.Internal("Failed to create listing", err)
		}
		if err := s.slotRepo.CreateForListing(sessCtx, listing.ID, listing.TotalSlots); err != nil {
			return apperrors.Internal("Failed to create listing slots", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create listing", "error", err)
		return err
	}

	s.cfg.Log.Info("Listing created",
		"id", listing.ID,
		"city", listing.City,
		"total_slots", listing.TotalSlots,
	)
	return nil
}

func (s *listingService) sanitize(listing *model.Listing) {
	listing.Title = sanitizer.SanitizeTitle(listing.Title)
	listing.Address = sanitizer.SanitizeAddress(listing.Address)
	listing.City = sanitizer.SanitizeCity(listing.City)
	listing.Requirements = sanitizer.SanitizeRequirements(listing.Requirements)
	listing.PhotoURLs = sanitizer.SanitizePhotoURLs(listing.PhotoURLs)
	listing.ContactPhone = sanitizer.NormalizePhone(listing.ContactPhone)
	listing.MonthlyPrice = sanitizer.ClampMonthlyPrice(listing.MonthlyPrice)
}

// applyDefaults infers currency and country from the contact phone prefix
// when the owner left them blank.
func (s *listingService) applyDefaults(listing *model.Listing) {
	if listing.Currency == "" {
		listing.Currency = locale.InferCurrencyFromPhone(listing.ContactPhone)
	}
	if listing.Country == "" {
		if country := locale.InferCountryFromPhone(listing.ContactPhone); country != nil {
			listing.Country = country.Code
		}
	}
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateListingLookup(err, id)
	}

	return listing, nil
}

func (s *listingService) Update(ctx context.Context, userID string, id string, updates *model.ListingUpdate) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translateListingLookup(err, id)
	}

	if existing.OwnerID != userID {
		return apperrors.Forbidden("Only the owner can edit this listing")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Listing update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Invalid listing input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Listing", id)
		}
		s.cfg.Log.Error("Failed to update listing", "id", id, "error", err)
		return apperrors.Internal("Failed to update listing", err)
	}

	s.cfg.Log.Info("Listing updated", "id", id)
	return nil
}

func (s *listingService) mergeUpdates(existing *model.Listing, updates *model.ListingUpdate) *model.Listing {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Address != "" {
		merged.Address = updates.Address
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.MonthlyPrice != nil {
		merged.MonthlyPrice = *updates.MonthlyPrice
	}
	if updates.Bedrooms != nil {
		merged.Bedrooms = *updates.Bedrooms
	}
	if updates.Bathrooms != nil {
		merged.Bathrooms = *updates.Bathrooms
	}
	if updates.Furnished != nil {
		merged.Furnished = *updates.Furnished
	}
	if updates.LeaseMonths != nil {
		merged.LeaseMonths = *updates.LeaseMonths
	}
	if updates.Requirements != nil {
		merged.Requirements = *updates.Requirements
	}
	if updates.PhotoURLs != nil {
		merged.PhotoURLs = updates.PhotoURLs
	}
	if updates.ContactPhone != "" {
		merged.ContactPhone = updates.ContactPhone
	}

	return &merged
}

// Delete removes a listing and its slots, but only while every slot is
// still available: a locked or filled slot means someone has a hold or a
// booking riding on this listing.
func (s *listingService) Delete(ctx context.Context, userID string, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translateListingLookup(err, id)
	}

	if existing.OwnerID != userID {
		return apperrors.Forbidden("Only the owner can delete this listing")
	}

	inUse, err := s.slotRepo.CountInUse(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to check listing slots", err)
	}
	if inUse > 0 {
		return apperrors.Conflict("This listing has active holds or bookings and cannot be deleted")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, listingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Listing", id)
			}
			return apperrors.Internal("Failed to delete listing", err)
		}
		if err := s.slotRepo.DeleteByListing(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to delete listing slots", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete listing", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Listing deleted", "id", id)
	return nil
}

func (s *listingService) Search(ctx context.Context, city string, minPrice, maxPrice int64, limit int, offset int64) ([]*model.Listing, int64, error) {
	city = sanitizer.SanitizeCity(city)

	var count int64
	var listings []*model.Listing
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountSearch(ctx, city, minPrice, maxPrice)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count listings", "error", errCount)
			errCount = apperrors.Internal("Failed to count listings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		listings, errFind = s.repo.Search(ctx, city, minPrice, maxPrice, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search listings", "error", errFind)
			errFind = apperrors.Internal("Failed to search listings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return listings, count, nil
}

func translateListingLookup(err error, id string) error {
	switch {
	case errors.Is(err, listingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Listing", id)
	case errors.Is(err, listingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid listing ID format")
	default:
		return apperrors.Internal("Failed to retrieve listing", err)
	}
}

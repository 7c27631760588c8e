package service

import (
	"context"
	"errors"

	listingserrors "roomly/internal/listings/errors"
	"roomly/internal/listings/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// AvailabilityService is the projector: listing status and spot counts are
// always computed from the live slot documents, never cached on the
// listing, so a reservation committed a millisecond ago is already
// reflected in the next read.
type AvailabilityService interface {
	GetAvailability(ctx context.Context, listingID string) (*model.Availability, error)
	CanBook(ctx context.Context, listingID string, userID string) (*model.CanBook, error)
}

type availabilityService struct {
	repo         repository.ListingRepository
	slotRepo     repository.SlotRepository
	reservations repository.ReservationReader
	cfg          *config.Config
}

func NewAvailabilityService(
	repo repository.ListingRepository,
	slotRepo repository.SlotRepository,
	reservations repository.ReservationReader,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:         repo,
		slotRepo:     slotRepo,
		reservations: reservations,
		cfg:          cfg,
	}
}

func (s *availabilityService) GetAvailability(ctx context.Context, listingID string) (*model.Availability, error) {
	counts, err := s.slotCounts(ctx, listingID)
	if err != nil {
		return nil, err
	}

	return &model.Availability{
		ListingID:      listingID,
		Status:         counts.Status(),
		Total:          counts.Total,
		Locked:         counts.Locked,
		Filled:         counts.Filled,
		Available:      counts.Available(),
		SpotsLeftLabel: counts.FormatSpotsLeft(),
	}, nil
}

// CanBook renders the booking-eligibility verdict for one (listing, user)
// pair. Reasons are ordered: identity first, then listing state, then the
// caller's own outstanding holds. This is advisory; the reservations
// service re-decides every race at write time.
func (s *availabilityService) CanBook(ctx context.Context, listingID string, userID string) (*model.CanBook, error) {
	counts, err := s.slotCounts(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if userID == "" {
		return &model.CanBook{CanBook: false, Reason: "Sign in to book"}, nil
	}

	if counts.Available() == 0 {
		reason := "This listing is fully booked"
		if counts.Status() == model.ListingInCheckout {
			reason = "This listing is being booked right now"
		}
		return &model.CanBook{CanBook: false, Reason: reason}, nil
	}

	session, err := s.reservations.ActiveSession(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check active session", err)
	}
	if session != nil {
		return &model.CanBook{
			CanBook: false,
			Reason:  "You have an active checkout session. Complete or cancel it first",
		}, nil
	}

	commitment, err := s.reservations.ActiveCommitment(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check active commitment", err)
	}
	if commitment != nil && commitment.ListingID != listingID {
		return &model.CanBook{
			CanBook: false,
			Reason:  "You can only have one active commitment at a time",
		}, nil
	}

	return &model.CanBook{CanBook: true}, nil
}

func (s *availabilityService) slotCounts(ctx context.Context, listingID string) (model.SlotCounts, error) {
	if _, err := s.repo.FindByID(ctx, listingID); err != nil {
		switch {
		case errors.Is(err, listingserrors.ErrNotFound):
			return model.SlotCounts{}, apperrors.NotFoundWithID("Listing", listingID)
		case errors.Is(err, listingserrors.ErrInvalidID):
			return model.SlotCounts{}, apperrors.InvalidInput("Invalid listing ID format")
		default:
			return model.SlotCounts{}, apperrors.Internal("Failed to retrieve listing", err)
		}
	}

	counts, err := s.slotRepo.Counts(ctx, listingID)
	if err != nil {
		return model.SlotCounts{}, apperrors.Internal("Failed to compute availability", err)
	}

	return counts, nil
}

package service

import (
	"context"
	"net/http"
	"testing"

	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

func newAvailabilityService(slots *mockSlotRepo, reservations *mockReservationReader) AvailabilityService {
	repo := &mockListingRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			listing := validListing()
			listing.ID = id
			return listing, nil
		},
	}
	return NewAvailabilityService(repo, slots, reservations, newTestConfig())
}

func countsOf(total, locked, filled int) *mockSlotRepo {
	return &mockSlotRepo{
		CountsFunc: func(ctx context.Context, listingID string) (model.SlotCounts, error) {
			return model.SlotCounts{Total: total, Locked: locked, Filled: filled}, nil
		},
	}
}

func TestGetAvailabilityProjection(t *testing.T) {
	svc := newAvailabilityService(countsOf(3, 1, 1), &mockReservationReader{})

	availability, err := svc.GetAvailability(context.Background(), testListingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if availability.Status != model.ListingAvailable {
		t.Errorf("expected AVAILABLE, got %q", availability.Status)
	}
	if availability.Available != 1 {
		t.Errorf("expected 1 available, got %d", availability.Available)
	}
	if availability.SpotsLeftLabel != "1 spot left" {
		t.Errorf("unexpected label %q", availability.SpotsLeftLabel)
	}
}

func TestGetAvailabilityStatusTransitions(t *testing.T) {
	tests := []struct {
		name                   string
		total, locked, filled  int
		wantStatus, wantLabel  string
	}{
		{"all open", 3, 0, 0, model.ListingAvailable, "3 spots left"},
		{"last one held", 2, 1, 1, model.ListingInCheckout, "No spots left"},
		{"all filled", 2, 0, 2, model.ListingBooked, "No spots left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAvailabilityService(countsOf(tt.total, tt.locked, tt.filled), &mockReservationReader{})

			availability, err := svc.GetAvailability(context.Background(), testListingID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if availability.Status != tt.wantStatus {
				t.Errorf("expected %q, got %q", tt.wantStatus, availability.Status)
			}
			if availability.SpotsLeftLabel != tt.wantLabel {
				t.Errorf("expected %q, got %q", tt.wantLabel, availability.SpotsLeftLabel)
			}
		})
	}
}

func TestGetAvailabilityUnknownListing(t *testing.T) {
	repo := &mockListingRepo{}
	svc := NewAvailabilityService(repo, &mockSlotRepo{}, &mockReservationReader{}, newTestConfig())

	_, err := svc.GetAvailability(context.Background(), testListingID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestCanBookAnonymous(t *testing.T) {
	svc := newAvailabilityService(countsOf(3, 0, 0), &mockReservationReader{})

	verdict, err := svc.CanBook(context.Background(), testListingID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.CanBook || verdict.Reason != "Sign in to book" {
		t.Errorf("unexpected verdict: %+v", verdict)
	}
}

func TestCanBookFullListing(t *testing.T) {
	svc := newAvailabilityService(countsOf(2, 0, 2), &mockReservationReader{})

	verdict, err := svc.CanBook(context.Background(), testListingID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.CanBook || verdict.Reason != "This listing is fully booked" {
		t.Errorf("unexpected verdict: %+v", verdict)
	}
}

func TestCanBookListingInCheckout(t *testing.T) {
	svc := newAvailabilityService(countsOf(2, 2, 0), &mockReservationReader{})

	verdict, err := svc.CanBook(context.Background(), testListingID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.CanBook || verdict.Reason != "This listing is being booked right now" {
		t.Errorf("unexpected verdict: %+v", verdict)
	}
}

func TestCanBookBlockedByOwnSession(t *testing.T) {
	reservations := &mockReservationReader{
		ActiveSessionFunc: func(ctx context.Context, userID string) (*model.CheckoutSession, error) {
			return &model.CheckoutSession{ID: "665f0000000000000000007e", UserID: userID}, nil
		},
	}
	svc := newAvailabilityService(countsOf(3, 0, 0), reservations)

	verdict, err := svc.CanBook(context.Background(), testListingID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.CanBook {
		t.Errorf("expected block for active session, got %+v", verdict)
	}
}

func TestCanBookBlockedByHoldElsewhere(t *testing.T) {
	reservations := &mockReservationReader{
		ActiveCommitmentFunc: func(ctx context.Context, userID string) (*model.Commitment, error) {
			return &model.Commitment{ListingID: "665f0000000000000000002b", UserID: userID}, nil
		},
	}
	svc := newAvailabilityService(countsOf(3, 0, 0), reservations)

	verdict, err := svc.CanBook(context.Background(), testListingID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.CanBook {
		t.Errorf("expected block for hold on another listing, got %+v", verdict)
	}
}

func TestCanBookHoldOnSameListingAllows(t *testing.T) {
	reservations := &mockReservationReader{
		ActiveCommitmentFunc: func(ctx context.Context, userID string) (*model.Commitment, error) {
			return &model.Commitment{ListingID: testListingID, UserID: userID}, nil
		},
	}
	svc := newAvailabilityService(countsOf(3, 1, 0), reservations)

	verdict, err := svc.CanBook(context.Background(), testListingID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.CanBook {
		t.Errorf("a hold on the same listing should not block, got %+v", verdict)
	}
}

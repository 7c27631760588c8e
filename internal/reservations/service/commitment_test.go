package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	reserrors "roomly/internal/reservations/errors"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

const (
	testSlotID    = "665f0000000000000000005a"
	testListingID = "665f0000000000000000001a"
	testUserID    = "user-1"
)

func availableSlot() *model.Slot {
	return &model.Slot{
		ID:         testSlotID,
		ListingID:  testListingID,
		SlotNumber: 1,
		Status:     model.SlotAvailable,
	}
}

func TestAcquireHappyPath(t *testing.T) {
	emitter := &recordingEmitter{}
	slotRepo := &mockSlotRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return availableSlot(), nil
		},
	}
	svc := NewCommitmentService(&mockCommitmentRepo{}, slotRepo, emitter, newTestConfig())

	before := time.Now().UTC()
	commitment, err := svc.Acquire(context.Background(), testUserID, testSlotID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if commitment.ListingID != testListingID {
		t.Errorf("expected listing id from slot, got %q", commitment.ListingID)
	}
	if commitment.Status != model.CommitmentActive {
		t.Errorf("expected active status, got %q", commitment.Status)
	}

	wantUntil := before.Add(48 * time.Hour)
	if commitment.LockedUntil.Before(wantUntil) || commitment.LockedUntil.After(wantUntil.Add(time.Minute)) {
		t.Errorf("expected lock window of 48h, got %v", commitment.LockedUntil.Sub(before))
	}

	types := emitter.types()
	if len(types) != 1 || types[0] != model.EventSlotLocked {
		t.Errorf("expected one slot.locked event, got %v", types)
	}
}

func TestAcquireRequiresAuth(t *testing.T) {
	svc := NewCommitmentService(&mockCommitmentRepo{}, &mockSlotRepo{}, &recordingEmitter{}, newTestConfig())

	_, err := svc.Acquire(context.Background(), "", testSlotID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAcquireLosesSlotRace(t *testing.T) {
	emitter := &recordingEmitter{}
	slotRepo := &mockSlotRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return availableSlot(), nil
		},
		LockFunc: func(ctx context.Context, id string, userID string, until time.Time) error {
			// Another caller won the conditional update.
			return reserrors.ErrSlotUnavailable
		},
	}
	svc := NewCommitmentService(&mockCommitmentRepo{}, slotRepo, emitter, newTestConfig())

	_, err := svc.Acquire(context.Background(), testUserID, testSlotID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if len(emitter.types()) != 0 {
		t.Error("no events should fire for a failed acquire")
	}
}

func TestAcquireSecondHoldBlocked(t *testing.T) {
	existing := &model.Commitment{
		ID:        "665f000000000000000000c9",
		ListingID: "665f0000000000000000002b",
		UserID:    testUserID,
		Status:    model.CommitmentActive,
	}
	slotRepo := &mockSlotRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return availableSlot(), nil
		},
	}
	commitmentRepo := &mockCommitmentRepo{
		CreateFunc: func(ctx context.Context, commitment *model.Commitment) error {
			// The per-user partial unique index rejected the insert.
			return reserrors.ErrActiveCommitment
		},
		FindActiveByUserFunc: func(ctx context.Context, userID string) (*model.Commitment, error) {
			return existing, nil
		},
	}
	svc := NewCommitmentService(commitmentRepo, slotRepo, &recordingEmitter{}, newTestConfig())

	_, err := svc.Acquire(context.Background(), testUserID, testSlotID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if appErr.Details["commitment_id"] != existing.ID {
		t.Errorf("expected existing commitment in details, got %v", appErr.Details)
	}
	if appErr.Details["listing_id"] != existing.ListingID {
		t.Errorf("expected existing listing in details, got %v", appErr.Details)
	}
}

func TestCancelOwnerOnly(t *testing.T) {
	commitmentRepo := &mockCommitmentRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Commitment, error) {
			return &model.Commitment{
				ID:     id,
				UserID: "someone-else",
				Status: model.CommitmentActive,
			}, nil
		},
	}
	svc := NewCommitmentService(commitmentRepo, &mockSlotRepo{}, &recordingEmitter{}, newTestConfig())

	err := svc.Cancel(context.Background(), testUserID, "665f000000000000000000c1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestCancelReleasesSlot(t *testing.T) {
	emitter := &recordingEmitter{}
	released := false
	var closedTo string

	commitmentRepo := &mockCommitmentRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Commitment, error) {
			return &model.Commitment{
				ID:        id,
				SlotID:    testSlotID,
				ListingID: testListingID,
				UserID:    testUserID,
				Status:    model.CommitmentActive,
			}, nil
		},
		CloseFunc: func(ctx context.Context, id string, toStatus string) error {
			closedTo = toStatus
			return nil
		},
	}
	slotRepo := &mockSlotRepo{
		ReleaseFunc: func(ctx context.Context, id string, userID string) error {
			released = true
			return nil
		},
	}
	svc := NewCommitmentService(commitmentRepo, slotRepo, emitter, newTestConfig())

	if err := svc.Cancel(context.Background(), testUserID, "665f000000000000000000c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closedTo != model.CommitmentCancelled {
		t.Errorf("expected cancelled status, got %q", closedTo)
	}
	if !released {
		t.Error("expected slot release")
	}

	types := emitter.types()
	if len(types) != 1 || types[0] != model.EventSlotReleased {
		t.Errorf("expected one slot.released event, got %v", types)
	}
}

func TestCancelInactiveCommitment(t *testing.T) {
	commitmentRepo := &mockCommitmentRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Commitment, error) {
			return &model.Commitment{
				ID:     id,
				UserID: testUserID,
				Status: model.CommitmentCompleted,
			}, nil
		},
	}
	svc := NewCommitmentService(commitmentRepo, &mockSlotRepo{}, &recordingEmitter{}, newTestConfig())

	err := svc.Cancel(context.Background(), testUserID, "665f000000000000000000c1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestGetActiveExpiresLapsedHold(t *testing.T) {
	emitter := &recordingEmitter{}
	released := false
	var closedTo string

	commitmentRepo := &mockCommitmentRepo{
		FindActiveByUserFunc: func(ctx context.Context, userID string) (*model.Commitment, error) {
			return &model.Commitment{
				ID:          "665f000000000000000000c1",
				SlotID:      testSlotID,
				ListingID:   testListingID,
				UserID:      userID,
				Status:      model.CommitmentActive,
				LockedUntil: time.Now().UTC().Add(-time.Minute),
			}, nil
		},
		CloseFunc: func(ctx context.Context, id string, toStatus string) error {
			closedTo = toStatus
			return nil
		},
	}
	slotRepo := &mockSlotRepo{
		ReleaseFunc: func(ctx context.Context, id string, userID string) error {
			released = true
			return nil
		},
	}
	svc := NewCommitmentService(commitmentRepo, slotRepo, emitter, newTestConfig())

	_, err := svc.GetActive(context.Background(), testUserID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404 for lapsed hold, got %v", err)
	}
	if closedTo != model.CommitmentExpired {
		t.Errorf("expected expired status, got %q", closedTo)
	}
	if !released {
		t.Error("expected slot release on lazy expiry")
	}

	types := emitter.types()
	if len(types) != 1 || types[0] != model.EventSlotReleased {
		t.Errorf("expected one slot.released event, got %v", types)
	}
}

func TestGetActiveWithinWindow(t *testing.T) {
	commitmentRepo := &mockCommitmentRepo{
		FindActiveByUserFunc: func(ctx context.Context, userID string) (*model.Commitment, error) {
			return &model.Commitment{
				ID:          "665f000000000000000000c1",
				UserID:      userID,
				Status:      model.CommitmentActive,
				LockedUntil: time.Now().UTC().Add(time.Hour),
			}, nil
		},
	}
	svc := NewCommitmentService(commitmentRepo, &mockSlotRepo{}, &recordingEmitter{}, newTestConfig())

	commitment, err := svc.GetActive(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if commitment.ID != "665f000000000000000000c1" {
		t.Errorf("unexpected commitment: %+v", commitment)
	}
}

func TestExpireStaleSkipsLostRaces(t *testing.T) {
	emitter := &recordingEmitter{}
	stale := []*model.Commitment{
		{ID: "665f000000000000000000c1", SlotID: testSlotID, ListingID: testListingID, UserID: "u1"},
		{ID: "665f000000000000000000c2", SlotID: testSlotID, ListingID: testListingID, UserID: "u2"},
	}
	commitmentRepo := &mockCommitmentRepo{
		FindStaleFunc: func(ctx context.Context, now time.Time, limit int) ([]*model.Commitment, error) {
			return stale, nil
		},
		CloseFunc: func(ctx context.Context, id string, toStatus string) error {
			if id == "665f000000000000000000c2" {
				// Completed concurrently; the transition found nothing active.
				return reserrors.ErrCommitmentNotActive
			}
			return nil
		},
	}
	svc := NewCommitmentService(commitmentRepo, &mockSlotRepo{}, emitter, newTestConfig())

	expired, err := svc.ExpireStale(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 1 {
		t.Errorf("expected 1 expiry, got %d", expired)
	}

	types := emitter.types()
	if len(types) != 1 || types[0] != model.EventSlotReleased {
		t.Errorf("expected one slot.released event, got %v", types)
	}
}

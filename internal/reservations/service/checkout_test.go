package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	reserrors "roomly/internal/reservations/errors"
	"roomly/internal/reservations/validator"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

const testSessionID = "665f0000000000000000007e"

type checkoutFixture struct {
	sessions    *mockSessionRepo
	commitments *mockCommitmentRepo
	slots       *mockSlotRepo
	bookings    *mockBookingRepo
	fetcher     *mockListingFetcher
	emitter     *recordingEmitter
}

func newCheckoutFixture() *checkoutFixture {
	return &checkoutFixture{
		sessions:    &mockSessionRepo{},
		commitments: &mockCommitmentRepo{},
		slots:       &mockSlotRepo{},
		bookings:    &mockBookingRepo{},
		fetcher:     &mockListingFetcher{},
		emitter:     &recordingEmitter{},
	}
}

func (f *checkoutFixture) service() CheckoutService {
	cfg := newTestConfig()
	return NewCheckoutService(
		f.sessions,
		f.commitments,
		f.slots,
		f.bookings,
		f.fetcher,
		validator.NewCheckoutValidator(logger.New(logger.Config{})),
		f.emitter,
		cfg,
	)
}

func startRequest() *validator.StartCheckoutRequest {
	return &validator.StartCheckoutRequest{
		ListingID:   testListingID,
		MoveInDate:  time.Now().UTC().AddDate(0, 0, 7),
		LeaseMonths: 12,
	}
}

func activeSession(expiresIn time.Duration) *model.CheckoutSession {
	return &model.CheckoutSession{
		ID:            testSessionID,
		CommitmentID:  "665f000000000000000000c1",
		SlotID:        testSlotID,
		ListingID:     testListingID,
		UserID:        testUserID,
		State:         model.SessionActive,
		ExpiresAt:     time.Now().UTC().Add(expiresIn),
		PriceSnapshot: 1200,
		Currency:      "USD",
		MoveInDate:    time.Now().UTC().AddDate(0, 0, 7),
		LeaseMonths:   12,
	}
}

func TestStartAcquiresFreshHold(t *testing.T) {
	f := newCheckoutFixture()
	f.slots.FindLowestAvailableFunc = func(ctx context.Context, listingID string) (*model.Slot, error) {
		return availableSlot(), nil
	}

	var created *model.CheckoutSession
	f.sessions.CreateFunc = func(ctx context.Context, session *model.CheckoutSession) error {
		created = session
		return nil
	}

	before := time.Now().UTC()
	session, err := f.service().Start(context.Background(), testUserID, startRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected session insert")
	}
	if session.SlotID != testSlotID {
		t.Errorf("expected lowest available slot, got %q", session.SlotID)
	}
	if session.CommitmentID == "" {
		t.Error("expected a commitment backing the session")
	}
	if session.Token == "" {
		t.Error("expected sealed checkout token")
	}
	if session.PriceSnapshot != 1200 || session.Currency != "USD" {
		t.Errorf("expected price snapshot from listing, got %d %s", session.PriceSnapshot, session.Currency)
	}

	wantExpiry := before.Add(15 * time.Minute)
	if session.ExpiresAt.Before(wantExpiry) || session.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expected 15m window, got %v", session.ExpiresAt.Sub(before))
	}

	types := f.emitter.types()
	if len(types) != 2 || types[0] != model.EventSlotLocked || types[1] != model.EventCheckoutStarted {
		t.Errorf("expected [slot.locked checkout.started], got %v", types)
	}
}

func TestStartReusesHoldOnSameListing(t *testing.T) {
	f := newCheckoutFixture()
	f.commitments.FindActiveByUserFunc = func(ctx context.Context, userID string) (*model.Commitment, error) {
		return &model.Commitment{
			ID:        "665f000000000000000000c1",
			SlotID:    testSlotID,
			ListingID: testListingID,
			UserID:    userID,
			Status:    model.CommitmentActive,
		}, nil
	}
	f.slots.FindLowestAvailableFunc = func(ctx context.Context, listingID string) (*model.Slot, error) {
		t.Fatal("reusing a hold must not grab a second slot")
		return nil, nil
	}

	session, err := f.service().Start(context.Background(), testUserID, startRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.CommitmentID != "665f000000000000000000c1" || session.SlotID != testSlotID {
		t.Errorf("expected session on the existing hold, got %+v", session)
	}

	types := f.emitter.types()
	if len(types) != 1 || types[0] != model.EventCheckoutStarted {
		t.Errorf("expected only checkout.started, got %v", types)
	}
}

func TestStartBlockedByHoldElsewhere(t *testing.T) {
	f := newCheckoutFixture()
	f.commitments.FindActiveByUserFunc = func(ctx context.Context, userID string) (*model.Commitment, error) {
		return &model.Commitment{
			ID:        "665f000000000000000000c9",
			ListingID: "665f0000000000000000002b",
			UserID:    userID,
			Status:    model.CommitmentActive,
		}, nil
	}

	_, err := f.service().Start(context.Background(), testUserID, startRequest())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if appErr.Details["listing_id"] != "665f0000000000000000002b" {
		t.Errorf("expected blocking listing in details, got %v", appErr.Details)
	}
}

func TestStartBlockedByActiveSession(t *testing.T) {
	f := newCheckoutFixture()
	f.slots.FindLowestAvailableFunc = func(ctx context.Context, listingID string) (*model.Slot, error) {
		return availableSlot(), nil
	}
	f.sessions.CreateFunc = func(ctx context.Context, session *model.CheckoutSession) error {
		// Per-user partial unique index on active sessions.
		return reserrors.ErrActiveSession
	}
	f.sessions.FindActiveByUserFunc = func(ctx context.Context, userID string) (*model.CheckoutSession, error) {
		return activeSession(10 * time.Minute), nil
	}

	_, err := f.service().Start(context.Background(), testUserID, startRequest())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if appErr.Details["session_id"] != testSessionID {
		t.Errorf("expected blocking session in details, got %v", appErr.Details)
	}
}

func TestStartNoSpotsLeft(t *testing.T) {
	f := newCheckoutFixture()
	// Default FindLowestAvailable reports no available slot.

	_, err := f.service().Start(context.Background(), testUserID, startRequest())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestStartListingGone(t *testing.T) {
	f := newCheckoutFixture()
	f.fetcher.FetchListingFunc = func(ctx context.Context, id string) (*model.Listing, error) {
		return nil, reserrors.ErrNotFound
	}

	_, err := f.service().Start(context.Background(), testUserID, startRequest())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestStartRejectsPastMoveIn(t *testing.T) {
	f := newCheckoutFixture()
	req := startRequest()
	req.MoveInDate = time.Now().UTC().AddDate(0, 0, -2)

	_, err := f.service().Start(context.Background(), testUserID, req)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestCompleteProducesBooking(t *testing.T) {
	f := newCheckoutFixture()
	session := activeSession(10 * time.Minute)
	f.sessions.FindByIDFunc = func(ctx context.Context, id string) (*model.CheckoutSession, error) {
		return session, nil
	}

	filled := false
	f.slots.FillFunc = func(ctx context.Context, id string, userID string) error {
		filled = true
		return nil
	}

	var sessionClosedTo, commitmentClosedTo string
	f.sessions.CloseFunc = func(ctx context.Context, id string, toState string) error {
		sessionClosedTo = toState
		return nil
	}
	f.commitments.CloseFunc = func(ctx context.Context, id string, toStatus string) error {
		commitmentClosedTo = toStatus
		return nil
	}

	req := &validator.CompleteCheckoutRequest{StartDate: session.MoveInDate}
	booking, err := f.service().Complete(context.Background(), testUserID, testSessionID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !filled {
		t.Error("expected slot fill")
	}
	if sessionClosedTo != model.SessionCompleted {
		t.Errorf("expected COMPLETED session, got %q", sessionClosedTo)
	}
	if commitmentClosedTo != model.CommitmentCompleted {
		t.Errorf("expected completed commitment, got %q", commitmentClosedTo)
	}

	wantEnd := session.MoveInDate.AddDate(0, session.LeaseMonths, 0)
	if !booking.EndDate.Equal(wantEnd) {
		t.Errorf("expected end date %v, got %v", wantEnd, booking.EndDate)
	}
	if booking.MonthlyRent != session.PriceSnapshot {
		t.Errorf("expected rent from snapshot, got %d", booking.MonthlyRent)
	}

	types := f.emitter.types()
	if len(types) != 2 || types[0] != model.EventSlotFilled || types[1] != model.EventCheckoutDone {
		t.Errorf("expected [slot.filled checkout.completed], got %v", types)
	}
}

func TestCompleteExpiredSessionSettlesExpiry(t *testing.T) {
	f := newCheckoutFixture()
	session := activeSession(-time.Minute)
	f.sessions.FindByIDFunc = func(ctx context.Context, id string) (*model.CheckoutSession, error) {
		return session, nil
	}

	released := false
	f.slots.ReleaseFunc = func(ctx context.Context, id string, userID string) error {
		released = true
		return nil
	}
	var sessionClosedTo string
	f.sessions.CloseFunc = func(ctx context.Context, id string, toState string) error {
		sessionClosedTo = toState
		return nil
	}

	req := &validator.CompleteCheckoutRequest{StartDate: session.MoveInDate}
	_, err := f.service().Complete(context.Background(), testUserID, testSessionID, req)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if sessionClosedTo != model.SessionExpired {
		t.Errorf("expected EXPIRED session, got %q", sessionClosedTo)
	}
	if !released {
		t.Error("expected slot release through the expiry path")
	}
}

func TestCompleteLosesRaceToSweeper(t *testing.T) {
	f := newCheckoutFixture()
	f.sessions.FindByIDFunc = func(ctx context.Context, id string) (*model.CheckoutSession, error) {
		return activeSession(10 * time.Minute), nil
	}
	f.sessions.CloseFunc = func(ctx context.Context, id string, toState string) error {
		// The sweeper got here first.
		return reserrors.ErrSessionNotActive
	}

	req := &validator.CompleteCheckoutRequest{StartDate: time.Now().UTC().AddDate(0, 0, 7)}
	_, err := f.service().Complete(context.Background(), testUserID, testSessionID, req)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if len(f.emitter.types()) != 0 {
		t.Error("no events should fire for a lost completion race")
	}
}

func TestCompleteForeignSession(t *testing.T) {
	f := newCheckoutFixture()
	f.sessions.FindByIDFunc = func(ctx context.Context, id string) (*model.CheckoutSession, error) {
		session := activeSession(10 * time.Minute)
		session.UserID = "someone-else"
		return session, nil
	}

	req := &validator.CompleteCheckoutRequest{StartDate: time.Now().UTC().AddDate(0, 0, 7)}
	_, err := f.service().Complete(context.Background(), testUserID, testSessionID, req)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestCancelSettlesEverything(t *testing.T) {
	f := newCheckoutFixture()
	f.sessions.FindByIDFunc = func(ctx context.Context, id string) (*model.CheckoutSession, error) {
		return activeSession(10 * time.Minute), nil
	}

	released := false
	f.slots.ReleaseFunc = func(ctx context.Context, id string, userID string) error {
		released = true
		return nil
	}

	if err := f.service().Cancel(context.Background(), testUserID, testSessionID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !released {
		t.Error("expected slot release")
	}

	types := f.emitter.types()
	if len(types) != 2 || types[0] != model.EventSlotReleased || types[1] != model.EventCheckoutCanceled {
		t.Errorf("expected [slot.released checkout.cancelled], got %v", types)
	}
}

func TestCancelWhenCommitmentAlreadySettled(t *testing.T) {
	f := newCheckoutFixture()
	f.sessions.FindByIDFunc = func(ctx context.Context, id string) (*model.CheckoutSession, error) {
		return activeSession(10 * time.Minute), nil
	}
	f.commitments.CloseFunc = func(ctx context.Context, id string, toStatus string) error {
		return reserrors.ErrCommitmentNotActive
	}
	f.slots.ReleaseFunc = func(ctx context.Context, id string, userID string) error {
		t.Fatal("slot must not be released when another closer settled the commitment")
		return nil
	}

	if err := f.service().Cancel(context.Background(), testUserID, testSessionID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetActiveCountdown(t *testing.T) {
	f := newCheckoutFixture()
	f.sessions.FindActiveByUserFunc = func(ctx context.Context, userID string) (*model.CheckoutSession, error) {
		return activeSession(90 * time.Second), nil
	}

	view, err := f.service().GetActive(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.SecondsRemaining <= 0 || view.SecondsRemaining > 90 {
		t.Errorf("unexpected seconds remaining: %d", view.SecondsRemaining)
	}
	if !view.ExpiringSoon {
		t.Error("expected warning window at 90s of a 2m threshold")
	}
}

func TestGetActiveLazyExpiry(t *testing.T) {
	f := newCheckoutFixture()
	f.sessions.FindActiveByUserFunc = func(ctx context.Context, userID string) (*model.CheckoutSession, error) {
		return activeSession(-time.Second), nil
	}

	_, err := f.service().GetActive(context.Background(), testUserID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404 for lapsed session, got %v", err)
	}

	types := f.emitter.types()
	if len(types) != 2 || types[0] != model.EventCheckoutExpired || types[1] != model.EventSlotReleased {
		t.Errorf("expected [checkout.expired slot.released], got %v", types)
	}
}

func TestSessionExpireStaleSkipsSettled(t *testing.T) {
	f := newCheckoutFixture()
	stale := []*model.CheckoutSession{activeSession(-time.Minute), activeSession(-time.Minute)}
	stale[1].ID = "665f0000000000000000007f"

	f.sessions.FindStaleFunc = func(ctx context.Context, now time.Time, limit int) ([]*model.CheckoutSession, error) {
		return stale, nil
	}
	f.sessions.CloseFunc = func(ctx context.Context, id string, toState string) error {
		if id == stale[1].ID {
			return reserrors.ErrSessionNotActive
		}
		return nil
	}

	expired, err := f.service().ExpireStale(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 1 {
		t.Errorf("expected 1 expiry, got %d", expired)
	}
}

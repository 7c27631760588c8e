package service

import (
	"context"
	"errors"
	"time"

	"roomly/internal/events"
	reserrors "roomly/internal/reservations/errors"
	"roomly/internal/reservations/repository"
	"roomly/internal/reservations/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sealer"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CheckoutService manages the 15-minute booking window. A session rides on
// a commitment: starting a checkout either reuses the caller's active hold
// on the listing or acquires a fresh one, and closing the session (any way)
// settles both the commitment and the slot in the same transaction.
type CheckoutService interface {
	Start(ctx context.Context, userID string, req *validator.StartCheckoutRequest) (*model.CheckoutSession, error)
	Complete(ctx context.Context, userID string, sessionID string, req *validator.CompleteCheckoutRequest) (*model.Booking, error)
	Cancel(ctx context.Context, userID string, sessionID string) error
	GetActive(ctx context.Context, userID string) (*model.ActiveSessionView, error)
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

type checkoutService struct {
	sessionRepo    repository.SessionRepository
	commitmentRepo repository.CommitmentRepository
	slotRepo       repository.SlotRepository
	bookingRepo    repository.BookingRepository
	listings       ListingFetcher
	validator      *validator.CheckoutValidator
	emitter        events.Emitter
	cfg            *config.Config
}

func NewCheckoutService(
	sessionRepo repository.SessionRepository,
	commitmentRepo repository.CommitmentRepository,
	slotRepo repository.SlotRepository,
	bookingRepo repository.BookingRepository,
	listings ListingFetcher,
	checkoutValidator *validator.CheckoutValidator,
	emitter events.Emitter,
	cfg *config.Config,
) CheckoutService {
	return &checkoutService{
		sessionRepo:    sessionRepo,
		commitmentRepo: commitmentRepo,
		slotRepo:       slotRepo,
		bookingRepo:    bookingRepo,
		listings:       listings,
		validator:      checkoutValidator,
		emitter:        emitter,
		cfg:            cfg,
	}
}

// Start opens a checkout session on the given listing. Price, currency and
// lease terms are snapshotted now so listing edits cannot change an
// in-flight booking. The session id is pre-generated so the sealed token
// can be written with the insert.
func (s *checkoutService) Start(ctx context.Context, userID string, req *validator.StartCheckoutRequest) (*model.CheckoutSession, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Sign in to book")
	}
	if err := s.validator.ValidateStart(req); err != nil {
		return nil, apperrors.Validation("Invalid checkout input", map[string]any{"error": err.Error()})
	}

	listing, err := s.listings.FetchListing(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", req.ListingID)
		}
		s.cfg.Log.Error("Failed to fetch listing for checkout", "listing_id", req.ListingID, "error", err)
		return nil, apperrors.Unavailable("Listings service")
	}

	now := time.Now().UTC()

	// An active hold on the same listing is reused; a hold elsewhere must
	// be resolved first.
	var reused *model.Commitment
	if existing, findErr := s.commitmentRepo.FindActiveByUser(ctx, userID); findErr == nil {
		if existing.ListingID != req.ListingID {
			return nil, apperrors.ConflictWithDetails(
				"You can only have one active commitment at a time",
				map[string]any{"commitment_id": existing.ID, "listing_id": existing.ListingID},
			)
		}
		reused = existing
	} else if !errors.Is(findErr, reserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check existing commitment", findErr)
	}

	sessionID := primitive.NewObjectID().Hex()
	token, err := sealer.SealCheckoutToken(sessionID, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to seal checkout token", err)
	}

	session := &model.CheckoutSession{
		ID:            sessionID,
		ListingID:     req.ListingID,
		UserID:        userID,
		State:         model.SessionActive,
		Token:         token,
		ExpiresAt:     now.Add(s.cfg.SessionDuration),
		PriceSnapshot: listing.MonthlyPrice,
		Currency:      listing.Currency,
		MoveInDate:    req.MoveInDate,
		LeaseMonths:   req.LeaseMonths,
	}

	var lockedSlotID string
	err = s.sessionRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if reused != nil {
			session.CommitmentID = reused.ID
			session.SlotID = reused.SlotID
			return s.sessionRepo.Create(sessCtx, session)
		}

		slot, err := s.slotRepo.FindLowestAvailable(sessCtx, req.ListingID)
		if err != nil {
			return err
		}

		lockedUntil := now.Add(s.cfg.LockDuration)
		if err := s.slotRepo.Lock(sessCtx, slot.ID, userID, lockedUntil); err != nil {
			return err
		}

		commitment := &model.Commitment{
			SlotID:      slot.ID,
			ListingID:   req.ListingID,
			UserID:      userID,
			Status:      model.CommitmentActive,
			LockedUntil: lockedUntil,
		}
		if err := s.commitmentRepo.Create(sessCtx, commitment); err != nil {
			return err
		}

		session.CommitmentID = commitment.ID
		session.SlotID = slot.ID
		lockedSlotID = slot.ID

		return s.sessionRepo.Create(sessCtx, session)
	})
	if err != nil {
		return nil, s.translateStartError(ctx, userID, err)
	}

	s.cfg.Log.Info("Checkout session started",
		"session_id", session.ID,
		"commitment_id", session.CommitmentID,
		"listing_id", session.ListingID,
		"expires_at", session.ExpiresAt,
	)

	if lockedSlotID != "" {
		s.emitter.Emit(ctx, model.ReservationEvent{
			Type:      model.EventSlotLocked,
			ListingID: session.ListingID,
			SlotID:    lockedSlotID,
			UserID:    userID,
		})
	}
	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventCheckoutStarted,
		ListingID: session.ListingID,
		SlotID:    session.SlotID,
		UserID:    userID,
	})

	return session, nil
}

func (s *checkoutService) translateStartError(ctx context.Context, userID string, err error) error {
	switch {
	case errors.Is(err, reserrors.ErrActiveSession):
		details := map[string]any{}
		if existing, findErr := s.sessionRepo.FindActiveByUser(ctx, userID); findErr == nil {
			details["session_id"] = existing.ID
			details["listing_id"] = existing.ListingID
		}
		return apperrors.ConflictWithDetails("You have an active checkout session. Complete or cancel it first", details)
	case errors.Is(err, reserrors.ErrListingUnavailable):
		return apperrors.Conflict("This listing has no spots left")
	case errors.Is(err, reserrors.ErrSlotUnavailable):
		return apperrors.Conflict("This spot was just taken. Pick another one")
	case errors.Is(err, reserrors.ErrActiveCommitment):
		return apperrors.Conflict("You can only have one active commitment at a time")
	case apperrors.IsAppError(err):
		return err
	default:
		s.cfg.Log.Error("Failed to start checkout", "error", err)
		return apperrors.Internal("Failed to start checkout", err)
	}
}

// Complete turns the session into a booking: booking written, commitment
// completed, slot filled, session COMPLETED, all in one transaction. An
// expired session is settled through the expiry path and reported as such.
func (s *checkoutService) Complete(ctx context.Context, userID string, sessionID string, req *validator.CompleteCheckoutRequest) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Sign in to book")
	}
	if err := s.validator.ValidateComplete(req); err != nil {
		return nil, apperrors.Validation("Invalid checkout input", map[string]any{"error": err.Error()})
	}

	session, err := s.findOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, apperrors.Conflict("This checkout session is no longer active")
	}

	now := time.Now().UTC()
	if model.Expired(session.ExpiresAt, now) {
		s.expireOne(ctx, session)
		return nil, apperrors.Conflict("Your checkout session expired. Start again")
	}

	endDate := session.MoveInDate.AddDate(0, session.LeaseMonths, 0)
	startDate := req.StartDate
	if req.EndDate != nil {
		endDate = *req.EndDate
	} else if !startDate.Equal(session.MoveInDate) {
		endDate = startDate.AddDate(0, session.LeaseMonths, 0)
	}

	booking := &model.Booking{
		ListingID:   session.ListingID,
		SlotID:      session.SlotID,
		UserID:      userID,
		StartDate:   startDate,
		EndDate:     endDate,
		MonthlyRent: session.PriceSnapshot,
		Currency:    session.Currency,
	}

	err = s.sessionRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.sessionRepo.Close(sessCtx, session.ID, model.SessionCompleted); err != nil {
			return err
		}
		if err := s.commitmentRepo.Close(sessCtx, session.CommitmentID, model.CommitmentCompleted); err != nil {
			return err
		}
		if err := s.slotRepo.Fill(sessCtx, session.SlotID, userID); err != nil {
			return err
		}
		return s.bookingRepo.Create(sessCtx, booking)
	})
	if err != nil {
		if errors.Is(err, reserrors.ErrSessionNotActive) ||
			errors.Is(err, reserrors.ErrCommitmentNotActive) ||
			errors.Is(err, reserrors.ErrSlotStateConflict) {
			return nil, apperrors.Conflict("This checkout session is no longer active")
		}
		s.cfg.Log.Error("Failed to complete checkout", "session_id", sessionID, "error", err)
		return nil, apperrors.Internal("Failed to complete checkout", err)
	}

	s.cfg.Log.Info("Checkout completed",
		"session_id", session.ID,
		"booking_id", booking.ID,
		"listing_id", session.ListingID,
		"slot_id", session.SlotID,
	)

	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventSlotFilled,
		ListingID: session.ListingID,
		SlotID:    session.SlotID,
		UserID:    userID,
	})
	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventCheckoutDone,
		ListingID: session.ListingID,
		SlotID:    session.SlotID,
		UserID:    userID,
	})

	return booking, nil
}

// Cancel abandons the session and releases everything underneath it.
func (s *checkoutService) Cancel(ctx context.Context, userID string, sessionID string) error {
	if userID == "" {
		return apperrors.Unauthorized("Sign in to book")
	}

	session, err := s.findOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !session.IsActive() {
		return apperrors.Conflict("This checkout session is no longer active")
	}

	err = s.sessionRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.sessionRepo.Close(sessCtx, session.ID, model.SessionCancelled); err != nil {
			return err
		}
		if err := s.commitmentRepo.Close(sessCtx, session.CommitmentID, model.CommitmentCancelled); err != nil {
			if errors.Is(err, reserrors.ErrCommitmentNotActive) {
				return nil
			}
			return err
		}
		return s.slotRepo.Release(sessCtx, session.SlotID, userID)
	})
	if err != nil {
		if errors.Is(err, reserrors.ErrSessionNotActive) || errors.Is(err, reserrors.ErrSlotStateConflict) {
			return apperrors.Conflict("This checkout session is no longer active")
		}
		s.cfg.Log.Error("Failed to cancel checkout", "session_id", sessionID, "error", err)
		return apperrors.Internal("Failed to cancel checkout", err)
	}

	s.cfg.Log.Info("Checkout cancelled", "session_id", session.ID, "slot_id", session.SlotID)

	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventSlotReleased,
		ListingID: session.ListingID,
		SlotID:    session.SlotID,
		UserID:    userID,
	})
	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventCheckoutCanceled,
		ListingID: session.ListingID,
		SlotID:    session.SlotID,
		UserID:    userID,
	})

	return nil
}

// GetActive serves the countdown screen. A lapsed session observed here is
// expired immediately, so the client never renders a dead countdown.
func (s *checkoutService) GetActive(ctx context.Context, userID string) (*model.ActiveSessionView, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Sign in to book")
	}

	session, err := s.sessionRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Active checkout session")
		}
		return nil, apperrors.Internal("Failed to retrieve active session", err)
	}

	now := time.Now().UTC()
	if model.Expired(session.ExpiresAt, now) {
		s.expireOne(ctx, session)
		return nil, apperrors.NotFound("Active checkout session")
	}

	return &model.ActiveSessionView{
		Session:          session,
		SecondsRemaining: int64(model.TimeRemaining(session.ExpiresAt, now).Seconds()),
		ExpiringSoon:     model.InWarningWindow(session.ExpiresAt, now, s.cfg.SessionWarning),
	}, nil
}

// ExpireStale settles every lapsed session: session EXPIRED, commitment
// expired, slot released. Conditional transitions make it idempotent and
// safe against concurrent completions and other sweeper replicas.
func (s *checkoutService) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.sessionRepo.FindStale(ctx, now, staleBatchSize)
	if err != nil {
		return 0, apperrors.Internal("Failed to scan stale sessions", err)
	}

	expired := 0
	for _, session := range stale {
		if s.expireOne(ctx, session) {
			expired++
		}
	}

	return expired, nil
}

func (s *checkoutService) expireOne(ctx context.Context, session *model.CheckoutSession) bool {
	err := s.sessionRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.sessionRepo.Close(sessCtx, session.ID, model.SessionExpired); err != nil {
			return err
		}
		if err := s.commitmentRepo.Close(sessCtx, session.CommitmentID, model.CommitmentExpired); err != nil {
			// The commitment was settled through another path; its closer
			// already dealt with the slot.
			if errors.Is(err, reserrors.ErrCommitmentNotActive) {
				return nil
			}
			return err
		}
		return s.slotRepo.Release(sessCtx, session.SlotID, session.UserID)
	})
	if err != nil {
		if errors.Is(err, reserrors.ErrSessionNotActive) || errors.Is(err, reserrors.ErrSlotStateConflict) {
			return false
		}
		s.cfg.Log.Error("Failed to expire session", "session_id", session.ID, "error", err)
		return false
	}

	s.cfg.Log.Info("Checkout session expired", "session_id", session.ID, "slot_id", session.SlotID)

	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventCheckoutExpired,
		ListingID: session.ListingID,
		SlotID:    session.SlotID,
		UserID:    session.UserID,
	})
	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventSlotReleased,
		ListingID: session.ListingID,
		SlotID:    session.SlotID,
		UserID:    session.UserID,
	})

	return true
}

func (s *checkoutService) findOwnedSession(ctx context.Context, userID, sessionID string) (*model.CheckoutSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, reserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Checkout session", sessionID)
		case errors.Is(err, reserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid checkout session ID format")
		default:
			return nil, apperrors.Internal("Failed to retrieve checkout session", err)
		}
	}

	if session.UserID != userID {
		return nil, apperrors.Forbidden("This checkout session belongs to another user")
	}

	return session, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"roomly/internal/events"
	reserrors "roomly/internal/reservations/errors"
	"roomly/internal/reservations/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const staleBatchSize = 100

// CommitmentService is the lock manager: it hands out and releases the
// 48-hour slot holds. Exclusivity is never pre-checked here; the storage
// layer's conditional updates and partial unique indexes decide every race,
// and this layer translates their verdicts into user-facing errors.
type CommitmentService interface {
	Acquire(ctx context.Context, userID string, slotID string) (*model.Commitment, error)
	Cancel(ctx context.Context, userID string, commitmentID string) error
	GetActive(ctx context.Context, userID string) (*model.Commitment, error)
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

type commitmentService struct {
	repo     repository.CommitmentRepository
	slotRepo repository.SlotRepository
	emitter  events.Emitter
	cfg      *config.Config
}

func NewCommitmentService(
	repo repository.CommitmentRepository,
	slotRepo repository.SlotRepository,
	emitter events.Emitter,
	cfg *config.Config,
) CommitmentService {
	return &commitmentService{
		repo:     repo,
		slotRepo: slotRepo,
		emitter:  emitter,
		cfg:      cfg,
	}
}

// Acquire locks a slot and records the commitment in one transaction.
// Exactly one of N concurrent callers gets the conditional slot update;
// everyone else observes ErrSlotUnavailable. The per-user index rejects a
// second hold by the same user regardless of which slot it targets.
func (s *commitmentService) Acquire(ctx context.Context, userID string, slotID string) (*model.Commitment, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Sign in to book")
	}
	if slotID == "" {
		return nil, apperrors.InvalidInput("Slot ID cannot be empty")
	}

	now := time.Now().UTC()
	commitment := &model.Commitment{
		SlotID:      slotID,
		UserID:      userID,
		Status:      model.CommitmentActive,
		LockedUntil: now.Add(s.cfg.LockDuration),
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		slot, err := s.slotRepo.FindByID(sessCtx, slotID)
		if err != nil {
			return err
		}
		commitment.ListingID = slot.ListingID

		if err := s.slotRepo.Lock(sessCtx, slotID, userID, commitment.LockedUntil); err != nil {
			return err
		}

		return s.repo.Create(sessCtx, commitment)
	})
	if err != nil {
		return nil, s.translateAcquireError(ctx, userID, err)
	}

	s.cfg.Log.Info("Commitment acquired",
		"commitment_id", commitment.ID,
		"slot_id", slotID,
		"listing_id", commitment.ListingID,
		"locked_until", commitment.LockedUntil,
	)

	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventSlotLocked,
		ListingID: commitment.ListingID,
		SlotID:    slotID,
		UserID:    userID,
	})

	return commitment, nil
}

func (s *commitmentService) translateAcquireError(ctx context.Context, userID string, err error) error {
	switch {
	case errors.Is(err, reserrors.ErrNotFound):
		return apperrors.NotFound("Slot")
	case errors.Is(err, reserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid slot ID format")
	case errors.Is(err, reserrors.ErrSlotUnavailable):
		return apperrors.Conflict("This spot was just taken. Pick another one")
	case errors.Is(err, reserrors.ErrActiveCommitment):
		details := map[string]any{}
		if existing, findErr := s.repo.FindActiveByUser(ctx, userID); findErr == nil {
			details["commitment_id"] = existing.ID
			details["listing_id"] = existing.ListingID
		}
		return apperrors.ConflictWithDetails("You can only have one active commitment at a time", details)
	case apperrors.IsAppError(err):
		return err
	default:
		s.cfg.Log.Error("Failed to acquire commitment", "error", err)
		return apperrors.Internal("Failed to acquire commitment", err)
	}
}

// Cancel releases a hold. Only the owner can cancel, and only while the
// commitment is still active.
func (s *commitmentService) Cancel(ctx context.Context, userID string, commitmentID string) error {
	if userID == "" {
		return apperrors.Unauthorized("Sign in to book")
	}

	commitment, err := s.repo.FindByID(ctx, commitmentID)
	if err != nil {
		return s.translateLookupError(err, "Commitment", commitmentID)
	}

	if commitment.UserID != userID {
		return apperrors.Forbidden("This commitment belongs to another user")
	}
	if !commitment.IsActive() {
		return apperrors.Conflict("This commitment is no longer active")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Close(sessCtx, commitmentID, model.CommitmentCancelled); err != nil {
			return err
		}
		return s.slotRepo.Release(sessCtx, commitment.SlotID, userID)
	})
	if err != nil {
		if errors.Is(err, reserrors.ErrCommitmentNotActive) || errors.Is(err, reserrors.ErrSlotStateConflict) {
			return apperrors.Conflict("This commitment is no longer active")
		}
		s.cfg.Log.Error("Failed to cancel commitment", "commitment_id", commitmentID, "error", err)
		return apperrors.Internal("Failed to cancel commitment", err)
	}

	s.cfg.Log.Info("Commitment cancelled", "commitment_id", commitmentID, "slot_id", commitment.SlotID)

	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventSlotReleased,
		ListingID: commitment.ListingID,
		SlotID:    commitment.SlotID,
		UserID:    userID,
	})

	return nil
}

// GetActive returns the caller's active commitment. A stale hold observed
// here is expired on the spot through the same conditional transition the
// sweeper uses, so reads never serve a hold past its window.
func (s *commitmentService) GetActive(ctx context.Context, userID string) (*model.Commitment, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Sign in to book")
	}

	commitment, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Active commitment")
		}
		return nil, apperrors.Internal("Failed to retrieve active commitment", err)
	}

	if model.Expired(commitment.LockedUntil, time.Now().UTC()) {
		s.expireOne(ctx, commitment)
		return nil, apperrors.NotFound("Active commitment")
	}

	return commitment, nil
}

// ExpireStale closes every lapsed commitment and frees its slot. Each
// candidate goes through the conditional active->expired transition, so a
// hold that completed or was cancelled between the scan and the update is
// skipped rather than clobbered.
func (s *commitmentService) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.repo.FindStale(ctx, now, staleBatchSize)
	if err != nil {
		return 0, apperrors.Internal("Failed to scan stale commitments", err)
	}

	expired := 0
	for _, commitment := range stale {
		if s.expireOne(ctx, commitment) {
			expired++
		}
	}

	return expired, nil
}

func (s *commitmentService) expireOne(ctx context.Context, commitment *model.Commitment) bool {
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Close(sessCtx, commitment.ID, model.CommitmentExpired); err != nil {
			return err
		}
		return s.slotRepo.Release(sessCtx, commitment.SlotID, commitment.UserID)
	})
	if err != nil {
		if errors.Is(err, reserrors.ErrCommitmentNotActive) || errors.Is(err, reserrors.ErrSlotStateConflict) {
			// Lost the race to a completion or cancellation; nothing to do.
			return false
		}
		s.cfg.Log.Error("Failed to expire commitment", "commitment_id", commitment.ID, "error", err)
		return false
	}

	s.cfg.Log.Info("Commitment expired", "commitment_id", commitment.ID, "slot_id", commitment.SlotID)

	s.emitter.Emit(ctx, model.ReservationEvent{
		Type:      model.EventSlotReleased,
		ListingID: commitment.ListingID,
		SlotID:    commitment.SlotID,
		UserID:    commitment.UserID,
	})

	return true
}

func (s *commitmentService) translateLookupError(err error, resource, id string) error {
	switch {
	case errors.Is(err, reserrors.ErrNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, reserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid " + resource + " ID format")
	default:
		return apperrors.Internal("Failed to retrieve "+resource, err)
	}
}

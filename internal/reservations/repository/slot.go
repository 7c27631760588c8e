package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reserrors "roomly/internal/reservations/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SlotCollectionName = "Slots"

// SlotRepository performs the guarded slot transitions that carry the
// lifecycle invariant. Every mutation is a conditional update: the filter
// names the state the slot must still be in, and a zero match count means
// a concurrent writer won.
type SlotRepository interface {
	FindByID(ctx context.Context, id string) (*model.Slot, error)
	FindLowestAvailable(ctx context.Context, listingID string) (*model.Slot, error)
	Lock(ctx context.Context, id string, userID string, until time.Time) error
	Release(ctx context.Context, id string, userID string) error
	Fill(ctx context.Context, id string, userID string) error
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(SlotCollectionName),
	}
}

func (r *mongoSlotRepository) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var slot model.Slot
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	return &slot, nil
}

// FindLowestAvailable picks the available slot with the smallest slot
// number, so an entire-place listing (one slot) and a shared one behave
// the same way.
func (r *mongoSlotRepository) FindLowestAvailable(ctx context.Context, listingID string) (*model.Slot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"listing_id": listingID,
		"status":     model.SlotAvailable,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "slot_number", Value: 1}})

	var slot model.Slot
	err := r.collection.FindOne(ctx, filter, opts).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrListingUnavailable
		}
		return nil, fmt.Errorf("failed to find available slot: %w", err)
	}

	return &slot, nil
}

// Lock transitions available -> locked. Losing the race surfaces as
// ErrSlotUnavailable, never as a partial write.
func (r *mongoSlotRepository) Lock(ctx context.Context, id string, userID string, until time.Time) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": model.SlotAvailable,
	}
	update := bson.M{
		"$set": bson.M{
			"status":            model.SlotLocked,
			"locked_by_user_id": userID,
			"locked_until":      until,
			"updated_at":        time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to lock slot: %w", err)
	}

	if result.MatchedCount == 0 {
		if _, findErr := r.FindByID(ctx, id); errors.Is(findErr, reserrors.ErrNotFound) {
			return reserrors.ErrNotFound
		}
		return reserrors.ErrSlotUnavailable
	}

	return nil
}

// Release transitions locked -> available, but only for the holder.
func (r *mongoSlotRepository) Release(ctx context.Context, id string, userID string) error {
	return r.transitionLocked(ctx, id, userID, bson.M{
		"$set": bson.M{
			"status":     model.SlotAvailable,
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{
			"locked_by_user_id": "",
			"locked_until":      "",
		},
	})
}

// Fill transitions locked -> filled, the terminal state.
func (r *mongoSlotRepository) Fill(ctx context.Context, id string, userID string) error {
	return r.transitionLocked(ctx, id, userID, bson.M{
		"$set": bson.M{
			"status":     model.SlotFilled,
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{
			"locked_by_user_id": "",
			"locked_until":      "",
		},
	})
}

func (r *mongoSlotRepository) transitionLocked(ctx context.Context, id string, userID string, update bson.M) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":               objectID,
		"status":            model.SlotLocked,
		"locked_by_user_id": userID,
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition slot: %w", err)
	}

	if result.MatchedCount == 0 {
		return reserrors.ErrSlotStateConflict
	}

	return nil
}

// withTimeout bounds a repository call unless it is already running inside
// a transaction, where wrapping the session context would break it.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

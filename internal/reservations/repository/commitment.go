package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	reserrors "roomly/internal/reservations/errors"
	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CommitmentCollectionName = "Commitments"

// Index names referenced by duplicate-key translation and by the migration
// runner. Renaming one side without the other silently breaks the mapping.
const (
	IdxActiveCommitmentPerUser = "uniq_active_commitment_per_user"
	IdxActiveCommitmentPerSlot = "uniq_active_commitment_per_slot"
)

type CommitmentRepository interface {
	Create(ctx context.Context, commitment *model.Commitment) error
	FindByID(ctx context.Context, id string) (*model.Commitment, error)
	FindActiveByUser(ctx context.Context, userID string) (*model.Commitment, error)
	FindStale(ctx context.Context, now time.Time, limit int) ([]*model.Commitment, error)
	Close(ctx context.Context, id string, toStatus string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoCommitmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoCommitmentRepository(cfg *config.Config) CommitmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCommitmentRepository{
		cfg:        cfg,
		collection: db.Collection(CommitmentCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// Create inserts an active commitment. The partial unique indexes do the
// real enforcement: a duplicate key here is the storage layer telling us
// the user already holds something, or the slot is already committed.
func (r *mongoCommitmentRepository) Create(ctx context.Context, commitment *model.Commitment) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	commitment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, commitment)
	if err != nil {
		if mapped := mapCommitmentDuplicate(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create commitment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		commitment.ID = oid.Hex()
	}
	return nil
}

func mapCommitmentDuplicate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if strings.Contains(err.Error(), IdxActiveCommitmentPerSlot) {
		return reserrors.ErrSlotUnavailable
	}
	return reserrors.ErrActiveCommitment
}

func (r *mongoCommitmentRepository) FindByID(ctx context.Context, id string) (*model.Commitment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var commitment model.Commitment
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&commitment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find commitment: %w", err)
	}

	return &commitment, nil
}

func (r *mongoCommitmentRepository) FindActiveByUser(ctx context.Context, userID string) (*model.Commitment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"status":  model.CommitmentActive,
	}

	var commitment model.Commitment
	err := r.collection.FindOne(ctx, filter).Decode(&commitment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active commitment: %w", err)
	}

	return &commitment, nil
}

// FindStale returns active commitments whose hold window has lapsed.
// Candidates only: the caller must still go through the conditional Close
// so a racing completion wins.
func (r *mongoCommitmentRepository) FindStale(ctx context.Context, now time.Time, limit int) ([]*model.Commitment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":       model.CommitmentActive,
		"locked_until": bson.M{"$lt": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "locked_until", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale commitments: %w", err)
	}
	defer cursor.Close(ctx)

	var commitments []*model.Commitment
	if err = cursor.All(ctx, &commitments); err != nil {
		return nil, fmt.Errorf("failed to decode stale commitments: %w", err)
	}

	return commitments, nil
}

// Close transitions active -> toStatus. A zero match means the commitment
// already left active, which callers treat as losing a benign race.
func (r *mongoCommitmentRepository) Close(ctx context.Context, id string, toStatus string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": model.CommitmentActive,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    toStatus,
			"closed_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to close commitment: %w", err)
	}

	if result.MatchedCount == 0 {
		return reserrors.ErrCommitmentNotActive
	}

	return nil
}

func (r *mongoCommitmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

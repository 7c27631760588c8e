package repository

import (
	"context"
	"errors"
	"fmt"
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

const SessionCollectionName = "CheckoutSessions"

const IdxActiveSessionPerUser = "uniq_active_session_per_user"

type SessionRepository interface {
	Create(ctx context.Context, session *model.CheckoutSession) error
	FindByID(ctx context.Context, id string) (*model.CheckoutSession, error)
	FindActiveByUser(ctx context.Context, userID string) (*model.CheckoutSession, error)
	FindStale(ctx context.Context, now time.Time, limit int) ([]*model.CheckoutSession, error)
	Close(ctx context.Context, id string, toState string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSessionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSessionRepository(cfg *config.Config) SessionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSessionRepository{
		cfg:        cfg,
		collection: db.Collection(SessionCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// Create inserts an ACTIVE session. The caller pre-generates the ObjectID
// so the sealed token can reference the session before the insert. A
// duplicate key on the active-per-user index means the user already has a
// checkout in flight.
func (r *mongoSessionRepository) Create(ctx context.Context, session *model.CheckoutSession) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(session.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, session.ID)
	}

	session.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	doc := bson.M{
		"_id":            objectID,
		"commitment_id":  session.CommitmentID,
		"slot_id":        session.SlotID,
		"listing_id":     session.ListingID,
		"user_id":        session.UserID,
		"state":          session.State,
		"token":          session.Token,
		"expires_at":     session.ExpiresAt,
		"price_snapshot": session.PriceSnapshot,
		"currency":       session.Currency,
		"move_in_date":   session.MoveInDate,
		"lease_months":   session.LeaseMonths,
		"created_at":     session.CreatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reserrors.ErrActiveSession
		}
		return fmt.Errorf("failed to create checkout session: %w", err)
	}

	return nil
}

func (r *mongoSessionRepository) FindByID(ctx context.Context, id string) (*model.CheckoutSession, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var session model.CheckoutSession
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find checkout session: %w", err)
	}

	return &session, nil
}

func (r *mongoSessionRepository) FindActiveByUser(ctx context.Context, userID string) (*model.CheckoutSession, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"state":   model.SessionActive,
	}

	var session model.CheckoutSession
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}

	return &session, nil
}

// FindStale returns ACTIVE sessions past their deadline. Candidates only,
// like the commitment variant.
func (r *mongoSessionRepository) FindStale(ctx context.Context, now time.Time, limit int) ([]*model.CheckoutSession, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"state":      model.SessionActive,
		"expires_at": bson.M{"$lt": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "expires_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.CheckoutSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode stale sessions: %w", err)
	}

	return sessions, nil
}

// Close transitions ACTIVE -> toState; zero matches means the session
// already left ACTIVE.
func (r *mongoSessionRepository) Close(ctx context.Context, id string, toState string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":   objectID,
		"state": model.SessionActive,
	}
	update := bson.M{
		"$set": bson.M{
			"state":     toState,
			"closed_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to close checkout session: %w", err)
	}

	if result.MatchedCount == 0 {
		return reserrors.ErrSessionNotActive
	}

	return nil
}

func (r *mongoSessionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

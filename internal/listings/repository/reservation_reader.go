package repository

import (
	"context"
	"errors"
	"fmt"

	"roomly/pkg/config"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	commitmentCollectionName = "Commitments"
	sessionCollectionName    = "CheckoutSessions"
)

// ReservationReader gives the can-book verdict read-only sight of the
// reservation collections. It never writes; the reservations service owns
// every transition.
type ReservationReader interface {
	ActiveCommitment(ctx context.Context, userID string) (*model.Commitment, error)
	ActiveSession(ctx context.Context, userID string) (*model.CheckoutSession, error)
}

type mongoReservationReader struct {
	cfg         *config.Config
	commitments *mongo.Collection
	sessions    *mongo.Collection
}

func NewMongoReservationReader(cfg *config.Config) ReservationReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationReader{
		cfg:         cfg,
		commitments: db.Collection(commitmentCollectionName),
		sessions:    db.Collection(sessionCollectionName),
	}
}

// ActiveCommitment returns nil without error when the user has none.
func (r *mongoReservationReader) ActiveCommitment(ctx context.Context, userID string) (*model.Commitment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var commitment model.Commitment
	err := r.commitments.FindOne(ctx, bson.M{
		"user_id": userID,
		"status":  model.CommitmentActive,
	}).Decode(&commitment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read active commitment: %w", err)
	}

	return &commitment, nil
}

func (r *mongoReservationReader) ActiveSession(ctx context.Context, userID string) (*model.CheckoutSession, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var session model.CheckoutSession
	err := r.sessions.FindOne(ctx, bson.M{
		"user_id": userID,
		"state":   model.SessionActive,
	}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read active session: %w", err)
	}

	return &session, nil
}

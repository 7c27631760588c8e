package repository

import (
	"context"
	"fmt"
	"time"

	"roomly/pkg/config"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const SlotCollectionName = "Slots"

// SlotRepository on the listings side only fans slots out at creation,
// counts them for the availability projection, and tears them down with
// the listing. Lifecycle transitions belong to the reservations service.
type SlotRepository interface {
	CreateForListing(ctx context.Context, listingID string, totalSlots int) error
	Counts(ctx context.Context, listingID string) (model.SlotCounts, error)
	CountInUse(ctx context.Context, listingID string) (int64, error)
	DeleteByListing(ctx context.Context, listingID string) error
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

// CreateForListing inserts slot documents numbered 1..totalSlots, all
// available. Runs inside the listing-creation transaction so a failed
// insert leaves no half-created listing behind.
func (r *mongoSlotRepository) CreateForListing(ctx context.Context, listingID string, totalSlots int) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	docs := make([]interface{}, 0, totalSlots)
	for n := 1; n <= totalSlots; n++ {
		docs = append(docs, model.Slot{
			ListingID:  listingID,
			SlotNumber: n,
			Status:     model.SlotAvailable,
			UpdatedAt:  now,
		})
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create slots: %w", err)
	}

	return nil
}

// Counts aggregates the listing's slot statuses in one pipeline pass.
func (r *mongoSlotRepository) Counts(ctx context.Context, listingID string) (model.SlotCounts, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"listing_id": listingID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return model.SlotCounts{}, fmt.Errorf("failed to aggregate slot counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return model.SlotCounts{}, fmt.Errorf("failed to decode slot counts: %w", err)
	}

	var counts model.SlotCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case model.SlotLocked:
			counts.Locked += row.Count
		case model.SlotFilled:
			counts.Filled += row.Count
		}
	}

	return counts, nil
}

func (r *mongoSlotRepository) CountInUse(ctx context.Context, listingID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$in": []string{model.SlotLocked, model.SlotFilled}},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count in-use slots: %w", err)
	}

	return count, nil
}

func (r *mongoSlotRepository) DeleteByListing(ctx context.Context, listingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID}); err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}

	return nil
}

package model

import "time"

const (
	CommitmentActive    = "active"
	CommitmentCancelled = "cancelled"
	CommitmentExpired   = "expired"
	CommitmentCompleted = "completed"
)

// Commitment is a time-boxed hold a user has on a slot. At most one active
// commitment exists per user and per slot; both are carried by partial unique
// indexes, not application pre-checks. A commitment never returns to active
// after leaving it.
type Commitment struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SlotID      string     `json:"slot_id" bson:"slot_id" validate:"required,mongodb"`
	ListingID   string     `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	UserID      string     `json:"user_id" bson:"user_id" validate:"required"`
	Status      string     `json:"status" bson:"status" validate:"required,oneof=active cancelled expired completed"`
	LockedUntil time.Time  `json:"locked_until" bson:"locked_until" validate:"required"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

func (c *Commitment) IsActive() bool {
	return c.Status == CommitmentActive
}

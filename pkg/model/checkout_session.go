package model

import "time"

const (
	SessionActive    = "ACTIVE"
	SessionCompleted = "COMPLETED"
	SessionCancelled = "CANCELLED"
	SessionExpired   = "EXPIRED"
)

// CheckoutSession is the short booking window layered on a commitment. Price
// and lease terms are snapshotted at session start so listing edits cannot
// retroactively change an in-progress booking. At most one ACTIVE session
// exists per user (partial unique index).
type CheckoutSession struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CommitmentID  string     `json:"commitment_id" bson:"commitment_id" validate:"required,mongodb"`
	SlotID        string     `json:"slot_id" bson:"slot_id" validate:"required,mongodb"`
	ListingID     string     `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	UserID        string     `json:"user_id" bson:"user_id" validate:"required"`
	State         string     `json:"state" bson:"state" validate:"required,oneof=ACTIVE COMPLETED CANCELLED EXPIRED"`
	Token         string     `json:"token,omitempty" bson:"token,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at" bson:"expires_at" validate:"required"`
	PriceSnapshot int64      `json:"price_snapshot" bson:"price_snapshot" validate:"required,min=1"`
	Currency      string     `json:"currency" bson:"currency" validate:"omitempty,iso4217"`
	MoveInDate    time.Time  `json:"move_in_date" bson:"move_in_date" validate:"required"`
	LeaseMonths   int        `json:"lease_months" bson:"lease_months" validate:"required,min=1,max=36"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

func (s *CheckoutSession) IsActive() bool {
	return s.State == SessionActive
}

// ActiveSessionView is the client payload for the countdown screen.
type ActiveSessionView struct {
	Session          *CheckoutSession `json:"session"`
	SecondsRemaining int64            `json:"seconds_remaining"`
	ExpiringSoon     bool             `json:"expiring_soon"`
}

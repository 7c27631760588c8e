package model

import (
	"fmt"
	"time"
)

const (
	SlotAvailable = "available"
	SlotLocked    = "locked"
	SlotFilled    = "filled"
)

// Slot is one rentable spot inside a listing. A listing owns exactly
// total_slots of these, created with it and deleted with it. The lifecycle is
// strict: available -> locked -> (available | filled), and filled is terminal.
type Slot struct {
	ID             string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID      string     `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	SlotNumber     int        `json:"slot_number" bson:"slot_number" validate:"required,min=1"`
	Status         string     `json:"status" bson:"status" validate:"required,oneof=available locked filled"`
	LockedByUserID string     `json:"locked_by_user_id,omitempty" bson:"locked_by_user_id,omitempty"`
	LockedUntil    *time.Time `json:"locked_until,omitempty" bson:"locked_until,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// SlotCounts aggregates a listing's slot statuses at a point in time.
// Conservation invariant: Total == Locked + Filled + Available().
type SlotCounts struct {
	Total  int `json:"total"`
	Locked int `json:"locked"`
	Filled int `json:"filled"`
}

func (c SlotCounts) Available() int {
	return c.Total - c.Locked - c.Filled
}

const (
	ListingAvailable  = "AVAILABLE"
	ListingInCheckout = "IN_CHECKOUT"
	ListingBooked     = "BOOKED"
)

// Status projects the listing aggregate state from its counts: AVAILABLE
// while any slot is open, IN_CHECKOUT while the remainder is held but not
// finalized, BOOKED once every slot is filled.
func (c SlotCounts) Status() string {
	if c.Available() > 0 {
		return ListingAvailable
	}
	if c.Locked > 0 {
		return ListingInCheckout
	}
	return ListingBooked
}

func (c SlotCounts) FormatSpotsLeft() string {
	switch n := c.Available(); {
	case n <= 0:
		return "No spots left"
	case n == 1:
		return "1 spot left"
	default:
		return fmt.Sprintf("%d spots left", n)
	}
}

// Availability is the projection payload served to listing and map views.
type Availability struct {
	ListingID      string `json:"listing_id"`
	Status         string `json:"status"`
	Total          int    `json:"total"`
	Locked         int    `json:"locked"`
	Filled         int    `json:"filled"`
	Available      int    `json:"available"`
	SpotsLeftLabel string `json:"spots_left_label"`
}

// CanBook is the booking-eligibility verdict for a (listing, user) pair.
type CanBook struct {
	CanBook bool   `json:"can_book"`
	Reason  string `json:"reason,omitempty"`
}

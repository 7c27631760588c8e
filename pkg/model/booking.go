package model

import "time"

// Booking is the terminal artifact of a completed checkout session.
// Immutable once written.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID   string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	SlotID      string    `json:"slot_id" bson:"slot_id" validate:"required,mongodb"`
	UserID      string    `json:"user_id" bson:"user_id" validate:"required"`
	StartDate   time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	MonthlyRent int64     `json:"monthly_rent" bson:"monthly_rent" validate:"required,min=1"`
	Currency    string    `json:"currency" bson:"currency" validate:"omitempty,iso4217"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

package model

import "time"

// Reservation event types, one per committed state transition.
const (
	EventSlotLocked       = "slot.locked"
	EventSlotReleased     = "slot.released"
	EventSlotFilled       = "slot.filled"
	EventCheckoutStarted  = "checkout.started"
	EventCheckoutDone     = "checkout.completed"
	EventCheckoutCanceled = "checkout.cancelled"
	EventCheckoutExpired  = "checkout.expired"
)

// ReservationEvent is the advisory payload published after a transition
// commits. Consumers must re-fetch authoritative counts rather than trust
// the payload; ordering is only guaranteed within a listing's partition.
type ReservationEvent struct {
	Type       string    `json:"type"`
	ListingID  string    `json:"listing_id"`
	SlotID     string    `json:"slot_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

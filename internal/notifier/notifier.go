package notifier

import (
	"context"
	"fmt"

	"roomly/pkg/client"
	"roomly/pkg/kafka"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// Notifier turns reservation events into user-facing notifications. The
// event payload is advisory, so the notifier re-fetches the authoritative
// availability projection before saying anything about spot counts.
//
// Delivery is just structured logging for now; a push or email channel
// plugs in behind notify without touching the consume path.
type Notifier struct {
	listings *client.ListingClient
	log      *logger.Logger
}

func NewNotifier(listings *client.ListingClient, log *logger.Logger) *Notifier {
	return &Notifier{
		listings: listings,
		log:      log,
	}
}

// Handle is the consumer callback. Unknown event types are skipped, not
// failed: failing them would send every future schema addition to the DLQ.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.ReservationEvent
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode reservation event: %w", err)
	}

	switch event.Type {
	case model.EventSlotLocked:
		n.notify(ctx, event, "A spot was just reserved")
	case model.EventSlotReleased:
		n.notify(ctx, event, "A spot opened up")
	case model.EventSlotFilled:
		n.notify(ctx, event, "A spot was booked")
	case model.EventCheckoutStarted:
		n.notify(ctx, event, "Checkout started")
	case model.EventCheckoutDone:
		n.notify(ctx, event, "Booking confirmed")
	case model.EventCheckoutCanceled:
		n.notify(ctx, event, "Checkout cancelled")
	case model.EventCheckoutExpired:
		n.notify(ctx, event, "Checkout session expired")
	default:
		n.log.Warn("Skipping unknown reservation event",
			"event_type", event.Type,
			"listing_id", event.ListingID,
		)
	}

	return nil
}

func (n *Notifier) notify(ctx context.Context, event model.ReservationEvent, message string) {
	availability := n.refreshAvailability(ctx, event.ListingID)

	fields := []any{
		"event_type", event.Type,
		"listing_id", event.ListingID,
		"message", message,
	}
	if event.SlotID != "" {
		fields = append(fields, "slot_id", event.SlotID)
	}
	if event.UserID != "" {
		fields = append(fields, "user_id", event.UserID)
	}
	if availability != nil {
		fields = append(fields,
			"listing_status", availability.Status,
			"spots_left", availability.Available,
			"spots_label", availability.SpotsLeftLabel,
		)
	}

	n.log.Info("Notification", fields...)
}

// refreshAvailability fetches the live projection; nil means the listing
// is gone or the listings service is unreachable, and the notification
// goes out without counts.
func (n *Notifier) refreshAvailability(ctx context.Context, listingID string) *model.Availability {
	if listingID == "" {
		return nil
	}

	resp, err := n.listings.GetAvailability(ctx, listingID)
	if err != nil {
		n.log.Warn("Failed to refresh availability", "listing_id", listingID, "error", err)
		return nil
	}
	if resp.StatusCode >= 300 {
		n.log.Warn("Availability refresh rejected",
			"listing_id", listingID,
			"status", resp.StatusCode,
		)
		return nil
	}

	availability, err := n.listings.DecodeAvailability(resp)
	if err != nil {
		n.log.Warn("Failed to decode availability", "listing_id", listingID, "error", err)
		return nil
	}
	return availability
}

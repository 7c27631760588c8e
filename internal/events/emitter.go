package events

import (
	"context"
	"time"

	"roomly/pkg/kafka"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// Emitter publishes reservation events after a transition commits. Events
// are advisory: a publish failure is logged and swallowed, never bubbled
// into the transaction outcome that produced it.
type Emitter interface {
	Emit(ctx context.Context, event model.ReservationEvent)
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaEmitter struct {
	producer publisher
	source   string
	log      *logger.Logger
}

func NewKafkaEmitter(producer publisher, source string, log *logger.Logger) Emitter {
	return &kafkaEmitter{
		producer: producer,
		source:   source,
		log:      log,
	}
}

// Emit keys the message by listing id so all events for one listing land
// on the same partition and stay ordered.
func (e *kafkaEmitter) Emit(ctx context.Context, event model.ReservationEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg := kafka.NewMessage().
		WithKey(event.ListingID).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(e.source).
		WithSchemaVersion("1").
		Build()

	if err := e.producer.Publish(ctx, msg); err != nil {
		e.log.Error("Failed to publish reservation event",
			"event_type", event.Type,
			"listing_id", event.ListingID,
			"slot_id", event.SlotID,
			"error", err,
		)
		return
	}

	e.log.Debug("Reservation event published",
		"event_type", event.Type,
		"listing_id", event.ListingID,
	)
}

// NopEmitter drops events; used when a service runs without a broker.
type NopEmitter struct{}

func (NopEmitter) Emit(ctx context.Context, event model.ReservationEvent) {}

package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Reservation engine contract constants. A commitment holds its slot for
	// 48 hours; a checkout session must finish within 15 minutes, with the
	// client warned in the final 2.
	DefaultLockDuration    = 48 * time.Hour
	DefaultSessionDuration = 15 * time.Minute
	DefaultSessionWarning  = 2 * time.Minute
	DefaultSweepInterval   = 1 * time.Minute

	DefaultMaxSlotsPerListing = 12
	DefaultLogLevel           = "info"
	DefaultPaginationLimit    = 50

	DefaultListingsBaseURL     = "http://localhost:8081"
	DefaultReservationsBaseURL = "http://localhost:8082"

	DefaultEventsTopic    = "roomly.reservation-events"
	DefaultEventsDLQTopic = "roomly.reservation-events.dlq"
)

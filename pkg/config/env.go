package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvGatewaySigningSecret = "GATEWAY_SIGNING_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvLockDuration    = "LOCK_DURATION"
	EnvSessionDuration = "CHECKOUT_SESSION_DURATION"
	EnvSessionWarning  = "CHECKOUT_SESSION_WARNING"
	EnvSweepInterval   = "SWEEP_INTERVAL"

	EnvMaxSlotsPerListing = "MAX_SLOTS_PER_LISTING"

	EnvListingsBaseURL     = "LISTINGS_BASE_URL"
	EnvReservationsBaseURL = "RESERVATIONS_BASE_URL"

	EnvEventsTopic    = "EVENTS_TOPIC"
	EnvEventsDLQTopic = "EVENTS_DLQ_TOPIC"
)

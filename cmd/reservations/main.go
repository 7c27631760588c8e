package main

import (
	"roomly/internal/events"
	"roomly/internal/reservations/handler"
	"roomly/internal/reservations/repository"
	"roomly/internal/reservations/service"
	"roomly/internal/reservations/validator"
	"roomly/pkg/app"
	"roomly/pkg/config"
	"roomly/pkg/kafka"
	kafka_config "roomly/pkg/kafka/config"
	kafka_middleware "roomly/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Reservations service")
	cfg.SetMongo()
	cfg.Client.SetServiceClients(cfg.ListingsBaseURL, cfg.ReservationsBaseURL)
	defer cfg.GracefulShutdown()

	emitter, producer := initEmitter(cfg)
	api := initServices(cfg, emitter)

	serverApp := app.NewApplication(cfg)
	if producer != nil {
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close event producer", "error", err)
			}
		})
	}
	serverApp.SetApp(api)
	serverApp.Run()
}

// initEmitter builds the Kafka emitter for reservation events. Events are
// advisory, so a broker that cannot be reached degrades to a no-op emitter
// instead of keeping the service down.
func initEmitter(cfg *config.Config) (events.Emitter, *kafka.Producer) {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Error("Failed to create event producer, events disabled", "error", err)
		return events.NopEmitter{}, nil
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	return events.NewKafkaEmitter(producer, ServiceName, cfg.Log), producer
}

func initServices(cfg *config.Config, emitter events.Emitter) *handler.API {
	checkoutValidator := validator.NewCheckoutValidator(cfg.Log)

	slotRepo := repository.NewMongoSlotRepository(cfg)
	commitmentRepo := repository.NewMongoCommitmentRepository(cfg)
	sessionRepo := repository.NewMongoSessionRepository(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)

	listingFetcher := service.NewHTTPListingFetcher(cfg.Client.ListingClient)

	commitmentService := service.NewCommitmentService(commitmentRepo, slotRepo, emitter, cfg)
	checkoutService := service.NewCheckoutService(
		sessionRepo,
		commitmentRepo,
		slotRepo,
		bookingRepo,
		listingFetcher,
		checkoutValidator,
		emitter,
		cfg,
	)
	bookingService := service.NewBookingService(bookingRepo, cfg)

	cfg.Log.Info("Reservations service initialized", "database", cfg.MongoDatabaseName)
	return handler.NewAPI(
		handler.NewCommitmentHandler(commitmentService, cfg.Log),
		handler.NewCheckoutHandler(checkoutService, cfg.Log),
		handler.NewBookingHandler(bookingService, cfg.Log),
	)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"roomly/internal/events"
	"roomly/internal/reservations/repository"
	"roomly/internal/reservations/service"
	"roomly/internal/reservations/validator"
	"roomly/internal/sweeper"
	"roomly/pkg/config"
	"roomly/pkg/kafka"
	kafka_config "roomly/pkg/kafka/config"
	kafka_middleware "roomly/pkg/kafka/middleware"
)

const ServiceName = "sweeper"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Sweeper", "interval", cfg.SweepInterval)
	cfg.SetMongo()
	cfg.Client.SetServiceClients(cfg.ListingsBaseURL, cfg.ReservationsBaseURL)
	defer cfg.GracefulShutdown()

	emitter, producer := initEmitter(cfg)
	checkoutService, commitmentService := initServices(cfg, emitter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := sweeper.NewWorker(cfg.SweepInterval, checkoutService, commitmentService, cfg.Log)
	worker.Start(ctx)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown

	cfg.Log.Info("Shutdown signal received", "signal", sig.String())
	worker.Stop()
	if producer != nil {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close event producer", "error", err)
		}
	}
	cfg.Log.Info("Sweeper stopped gracefully")
}

func initEmitter(cfg *config.Config) (events.Emitter, *kafka.Producer) {
	kafkaCfg := kafka_config.Load()

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Error("Failed to create event producer, events disabled", "error", err)
		return events.NopEmitter{}, nil
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	return events.NewKafkaEmitter(producer, ServiceName, cfg.Log), producer
}

func initServices(cfg *config.Config, emitter events.Emitter) (service.CheckoutService, service.CommitmentService) {
	slotRepo := repository.NewMongoSlotRepository(cfg)
	commitmentRepo := repository.NewMongoCommitmentRepository(cfg)
	sessionRepo := repository.NewMongoSessionRepository(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)

	commitmentService := service.NewCommitmentService(commitmentRepo, slotRepo, emitter, cfg)
	checkoutService := service.NewCheckoutService(
		sessionRepo,
		commitmentRepo,
		slotRepo,
		bookingRepo,
		service.NewHTTPListingFetcher(cfg.Client.ListingClient),
		validator.NewCheckoutValidator(cfg.Log),
		emitter,
		cfg,
	)

	return checkoutService, commitmentService
}

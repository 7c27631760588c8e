package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"roomly/internal/notifier"
	"roomly/pkg/config"
	"roomly/pkg/kafka"
	kafka_config "roomly/pkg/kafka/config"
	kafka_middleware "roomly/pkg/kafka/middleware"
)

const (
	ServiceName   = "notifier"
	ConsumerGroup = "roomly-notifier"
)

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Notifier", "topic", cfg.EventsTopic, "group", ConsumerGroup)
	cfg.Client.SetServiceClients(cfg.ListingsBaseURL, cfg.ReservationsBaseURL)
	defer cfg.GracefulShutdown()

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	eventNotifier := notifier.NewNotifier(cfg.Client.ListingClient, cfg.Log)

	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.EventsTopic, ConsumerGroup, cfg.EventsDLQTopic, eventNotifier.Handle)
	if err != nil {
		cfg.Log.Fatal("Failed to create event consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, cancel := context.WithCancel(context.Background())
	consumerErrors := make(chan error, 1)
	go func() {
		consumerErrors <- consumer.Start(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Consumer stopped with error", "error", err)
		}
	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		<-consumerErrors
	}

	cancel()
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}

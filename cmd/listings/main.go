package main

import (
	"roomly/internal/listings/handler"
	"roomly/internal/listings/repository"
	"roomly/internal/listings/service"
	"roomly/internal/listings/validator"
	"roomly/pkg/app"
	"roomly/pkg/config"
)

const ServiceName = "listings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Listings service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	listingHandler := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(listingHandler)
	serverApp.Run()
}

func initServices(cfg *config.Config) *handler.ListingHandler {
	listingValidator := validator.NewListingValidator(cfg.Log, cfg.MaxSlotsPerListing)
	listingRepo := repository.NewMongoListingRepository(cfg)
	slotRepo := repository.NewMongoSlotRepository(cfg)
	reservationReader := repository.NewMongoReservationReader(cfg)

	listingService := service.NewListingService(listingRepo, slotRepo, listingValidator, cfg)
	availabilityService := service.NewAvailabilityService(listingRepo, slotRepo, reservationReader, cfg)

	cfg.Log.Info("Listings service initialized", "database", cfg.MongoDatabaseName)
	return handler.NewListingHandler(listingService, availabilityService, cfg.Log)
}

package main

import (
	"roomly/internal/gateway/handler"
	"roomly/internal/gateway/service"
	"roomly/pkg/app"
	"roomly/pkg/config"
)

const ServiceName = "gateway"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Gateway service")
	cfg.Client.SetServiceClients(cfg.ListingsBaseURL, cfg.ReservationsBaseURL)
	defer cfg.GracefulShutdown()

	gatewayService := service.NewGatewayService(cfg)
	flowHandler := handler.NewFlowHandler(gatewayService, cfg.Log)

	cfg.Log.Info("Gateway service initialized",
		"listings_base_url", cfg.ListingsBaseURL,
		"reservations_base_url", cfg.ReservationsBaseURL,
		"flows", gatewayService.AvailableFlows(),
	)

	serverApp := app.NewApplication(cfg)
	// The gateway signs outbound requests; end clients carry no signature.
	serverApp.SkipSignatureVerification()
	serverApp.SetApp(flowHandler)
	serverApp.Run()
}

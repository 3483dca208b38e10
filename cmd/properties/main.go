package main

import (
	"homeview/internal/properties/handler"
	"homeview/internal/properties/repository"
	"homeview/internal/properties/service"
	"homeview/internal/properties/validator"
	"homeview/internal/references"
	"homeview/pkg/app"
	"homeview/pkg/config"
)

const ServiceName = "properties"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStore()
	cfg.SetEvents()

	cfg.Log.Info("Starting Properties service")
	propertyService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewPropertyHandler(propertyService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.PropertyService {
	propertyValidator := validator.NewPropertyValidator(cfg.Log)
	propertyRepo := repository.New(cfg)
	propertyService := service.NewPropertyService(
		propertyRepo,
		references.New(cfg),
		propertyValidator,
		cfg.Client.Events,
		cfg,
	)

	cfg.Log.Info("Properties service initialized", "store", cfg.StoreDriver)
	return propertyService
}

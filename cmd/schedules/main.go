package main

import (
	"homeview/internal/references"
	"homeview/internal/schedules/handler"
	"homeview/internal/schedules/repository"
	"homeview/internal/schedules/service"
	"homeview/internal/schedules/validator"
	"homeview/pkg/app"
	"homeview/pkg/config"
)

const ServiceName = "schedules"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStore()
	cfg.SetEvents()

	cfg.Log.Info("Starting Schedules service")
	scheduleService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewScheduleHandler(scheduleService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ScheduleService {
	scheduleValidator := validator.NewScheduleValidator(cfg.Log)
	scheduleRepo := repository.New(cfg)
	scheduleService := service.NewScheduleService(
		scheduleRepo,
		references.New(cfg),
		scheduleValidator,
		cfg.Client.Events,
		cfg,
	)

	cfg.Log.Info("Schedules service initialized", "store", cfg.StoreDriver)
	return scheduleService
}

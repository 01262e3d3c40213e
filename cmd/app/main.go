package main

import (
	"sporti/config"
	"sporti/di"
	"sporti/helper"
	"sporti/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title SPORTI Booking API
// @version 1.0
// @description Room and facility bookings for the SPORTI officers' institutes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}

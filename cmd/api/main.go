package main

import (
	"os"

	"github.com/yigit/unisphere-courses/internal/pkg/logger"
	"github.com/yigit/unisphere-courses/internal/server"
)

// @title UniSphere Courses API
// @version 1.0
// @description Course catalogue service. Course creation and deletion are mirrored to the discussion service.

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}

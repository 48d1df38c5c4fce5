package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/namefreezers/weather-archive-export/internal/config"
	"github.com/namefreezers/weather-archive-export/internal/handlers"
	"github.com/namefreezers/weather-archive-export/internal/repository"
)

func main() {
	// 1) Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	// 2) Initialize structured logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	// 3) Connect to Postgres; the API only serves what the exporter stored
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL or POSTGRES_* settings are required for the API")
	}
	db, err := repository.OpenDB(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repo := repository.NewDailyWeatherRepository(db, logger)

	// 4) Set up Gin router and handlers
	router := gin.Default()
	api := router.Group("/api")
	{
		api.GET("/cities", handlers.CitiesHandler(repo))
		api.GET("/weather/daily", handlers.DailyWeatherHandler(repo))
	}

	// 5) Start HTTP server
	addr := ":" + cfg.Port
	logger.Info("starting API server", zap.String("address", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

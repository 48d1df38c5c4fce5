package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/namefreezers/weather-archive-export/internal/cities"
	"github.com/namefreezers/weather-archive-export/internal/config"
	"github.com/namefreezers/weather-archive-export/internal/repository"
	"github.com/namefreezers/weather-archive-export/internal/services"
	"github.com/namefreezers/weather-archive-export/internal/weather"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1) Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Printf("configuration error: %v", err)
		return 2
	}

	// 2) Initialize structured logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Printf("cannot initialize logger: %v", err)
		return 2
	}
	defer logger.Sync()

	ctx := context.Background()

	// 3) Open the response cache; it lives as long as this run
	cache, err := weather.BuildCache(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open response cache", zap.Error(err))
		return 1
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("failed to close response cache", zap.Error(err))
		}
	}()

	// 4) Build the archive fetcher (retry, rate limit & cache)
	fetcher, err := weather.BuildArchiveFetcher(cfg, cache, logger)
	if err != nil {
		logger.Error("failed to initialize weather fetcher", zap.Error(err))
		return 1
	}

	// 5) Optional Postgres sink
	var repo repository.DailyWeatherRepository
	if cfg.DatabaseURL != "" {
		db, err := repository.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", zap.Error(err))
			return 1
		}
		defer db.Close()

		repo = repository.NewDailyWeatherRepository(db, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare database schema", zap.Error(err))
			return 1
		}
	}

	// 6) Export every city, in order
	svc := services.NewExportService(fetcher, repo, services.Options{
		OutputDir: cfg.OutputDir,
		FailFast:  cfg.FailFast,
	}, logger)

	logger.Info("starting weather export",
		zap.String("run_id", svc.RunID().String()),
		zap.String("output_dir", cfg.OutputDir),
		zap.Bool("fail_fast", cfg.FailFast),
	)
	if err := svc.Run(ctx, cities.Default()); err != nil {
		logger.Error("weather export failed", zap.Error(err))
		return 1
	}
	return 0
}

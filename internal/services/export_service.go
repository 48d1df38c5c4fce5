package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/namefreezers/weather-archive-export/internal/cities"
	"github.com/namefreezers/weather-archive-export/internal/export"
	"github.com/namefreezers/weather-archive-export/internal/repository"
	"github.com/namefreezers/weather-archive-export/internal/weather"
)

// ErrCityFailed wraps every per-city failure returned by Run.
var ErrCityFailed = errors.New("city export failed")

// ExportService fetches archive series and persists them.
type ExportService interface {
	// FetchAndSave fetches one city and writes <outputDir>/<city>.csv.
	FetchAndSave(ctx context.Context, city cities.City) error
	// Run processes cities sequentially, in order.
	Run(ctx context.Context, list []cities.City) error
	RunID() uuid.UUID
}

// Options control where output goes and how failures are handled.
type Options struct {
	OutputDir string
	// FailFast stops at the first failing city. Otherwise every city is
	// attempted and the failures are returned together.
	FailFast bool
}

type exportService struct {
	fetcher weather.Fetcher
	repo    repository.DailyWeatherRepository // nil when no database is configured
	opts    Options
	runID   uuid.UUID
	logger  *zap.Logger
}

// NewExportService wires up service dependencies. repo may be nil.
func NewExportService(
	fetcher weather.Fetcher,
	repo repository.DailyWeatherRepository,
	opts Options,
	logger *zap.Logger,
) ExportService {
	runID := uuid.New()
	return &exportService{
		fetcher: fetcher,
		repo:    repo,
		opts:    opts,
		runID:   runID,
		logger:  logger.With(zap.String("run_id", runID.String())),
	}
}

func (s *exportService) RunID() uuid.UUID { return s.runID }

func (s *exportService) FetchAndSave(ctx context.Context, city cities.City) error {
	if err := city.Validate(); err != nil {
		return err
	}

	s.logger.Info("fetching weather data", zap.String("city", city.Name))

	series, err := s.fetcher.FetchDaily(ctx, city)
	if err != nil {
		return fmt.Errorf("fetcher.FetchDaily: %w", err)
	}

	path, err := export.WriteCSV(s.opts.OutputDir, series)
	if err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}

	if s.repo != nil {
		if err := s.repo.UpsertSeries(ctx, s.runID, series); err != nil {
			return fmt.Errorf("repo.UpsertSeries: %w", err)
		}
	}

	s.logger.Info("weather data saved",
		zap.String("city", city.Name),
		zap.String("path", path),
		zap.Int("days", len(series.Records)),
	)
	return nil
}

func (s *exportService) Run(ctx context.Context, list []cities.City) error {
	var errs []error
	for _, city := range list {
		if err := s.FetchAndSave(ctx, city); err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrCityFailed, city.Name, err)
			s.logger.Error("weather export failed", zap.String("city", city.Name), zap.Error(err))
			if s.opts.FailFast {
				return err
			}
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		s.logger.Warn("export finished with failures",
			zap.Int("cities", len(list)),
			zap.Int("failed", len(errs)),
		)
		return errors.Join(errs...)
	}
	s.logger.Info("export finished", zap.Int("cities", len(list)))
	return nil
}

package weather

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/namefreezers/weather-archive-export/internal/config"
	"github.com/namefreezers/weather-archive-export/internal/weather/openmeteo"
	"github.com/namefreezers/weather-archive-export/internal/weather/transport"
)

// BuildCache opens the response cache selected by cfg.CacheBackend.
// The caller owns the returned cache and must Close it.
func BuildCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (transport.Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheSQLite:
		c, err := transport.NewSQLiteCache(ctx, cfg.CachePath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite response cache", zap.String("path", cfg.CachePath))
		return c, nil
	case config.CacheRedis:
		c, err := transport.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		logger.Info("using redis response cache", zap.String("addr", cfg.RedisAddr))
		return c, nil
	case config.CacheMemory:
		logger.Info("using in-memory response cache")
		return transport.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// BuildArchiveFetcher constructs a Fetcher that:
// 1) Paces and retries archive requests (RetryingGetter)
// 2) Decorates that with the given response cache
// 3) Decodes responses with the Open-Meteo archive client
func BuildArchiveFetcher(cfg *config.Config, cache transport.Cache, logger *zap.Logger) (Fetcher, error) {
	base := transport.NewRetryingGetter(nil, cfg.HTTPTimeout, cfg.RetryMax, cfg.RetryBaseDelay, cfg.RateLimitPerSecond, logger)
	cached := transport.NewCachingGetter(base, cache, logger)

	client, err := openmeteo.NewClient(cfg.ArchiveURL, cached, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

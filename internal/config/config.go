package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported response cache backends.
const (
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// Config holds all the environment‐driven settings for the exporter and the read API.
type Config struct {
	// Archive API
	ArchiveURL         string
	HTTPTimeout        time.Duration
	RetryMax           uint64
	RetryBaseDelay     time.Duration
	RateLimitPerSecond float64

	// Output
	OutputDir string
	FailFast  bool

	// Response cache
	CacheBackend  string
	CachePath     string
	RedisAddr     string
	RedisPassword string

	// Database (Postgres), optional for the exporter
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	DatabaseURL      string

	// API
	Port string
}

// Load reads an optional .env file, then reads and validates the environment,
// applying defaults where appropriate. It returns an error if any variable is malformed.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var err error
	cfg := &Config{}

	// Archive settings
	cfg.ArchiveURL = getenv("ARCHIVE_URL", "https://archive-api.open-meteo.com/v1/archive")

	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	retryMaxStr := getenv("RETRY_MAX", "5")
	if cfg.RetryMax, err = strconv.ParseUint(retryMaxStr, 10, 32); err != nil {
		return nil, fmt.Errorf("invalid RETRY_MAX %q: %w", retryMaxStr, err)
	}
	if cfg.RetryBaseDelay, err = durationEnv("RETRY_BASE_DELAY", 200*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.RetryBaseDelay <= 0 {
		return nil, fmt.Errorf("RETRY_BASE_DELAY must be positive")
	}
	rateStr := getenv("RATE_LIMIT_PER_SECOND", "5")
	if cfg.RateLimitPerSecond, err = strconv.ParseFloat(rateStr, 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_SECOND %q: %w", rateStr, err)
	}
	if cfg.RateLimitPerSecond <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive")
	}

	// Output settings
	cfg.OutputDir = getenv("OUTPUT_DIR", "data/weather_data")
	failFastStr := getenv("FAIL_FAST", "true")
	if cfg.FailFast, err = strconv.ParseBool(failFastStr); err != nil {
		return nil, fmt.Errorf("invalid FAIL_FAST %q: %w", failFastStr, err)
	}

	// Cache settings
	cfg.CacheBackend = getenv("CACHE_BACKEND", CacheSQLite)
	switch cfg.CacheBackend {
	case CacheSQLite:
		cfg.CachePath = getenv("CACHE_PATH", ".cache.sqlite")
	case CacheRedis:
		cfg.RedisAddr = getenv("REDIS_ADDR", "redis:6379")
		cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
		if cfg.RedisPassword == "" {
			return nil, fmt.Errorf("REDIS_PASSWORD is required for the redis cache backend")
		}
	case CacheMemory:
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: want %s, %s or %s",
			cfg.CacheBackend, CacheSQLite, CacheRedis, CacheMemory)
	}

	// Postgres settings. DATABASE_URL wins; otherwise it is assembled
	// from POSTGRES_* when POSTGRES_USER is present.
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" && os.Getenv("POSTGRES_USER") != "" {
		cfg.PostgresUser = os.Getenv("POSTGRES_USER")
		cfg.PostgresPassword = os.Getenv("POSTGRES_PASSWORD")
		if cfg.PostgresPassword == "" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		cfg.PostgresDB = os.Getenv("POSTGRES_DB")
		if cfg.PostgresDB == "" {
			return nil, fmt.Errorf("POSTGRES_DB is required")
		}
		cfg.PostgresHost = getenv("POSTGRES_HOST", "db")
		pgPortStr := getenv("POSTGRES_PORT", "5432")
		if cfg.PostgresPort, err = strconv.Atoi(pgPortStr); err != nil {
			return nil, fmt.Errorf("invalid POSTGRES_PORT %q: %w", pgPortStr, err)
		}
		cfg.DatabaseURL = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB,
		)
	}

	cfg.Port = getenv("PORT", "8080")

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

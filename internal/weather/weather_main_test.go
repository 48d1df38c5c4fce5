package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namefreezers/weather-archive-export/internal/cities"
	"github.com/namefreezers/weather-archive-export/internal/config"
)

const oneDayBody = `{
  "latitude": 0, "longitude": 0, "elevation": 0,
  "utc_offset_seconds": 0, "timezone": "GMT", "timezone_abbreviation": "GMT",
  "daily": {
    "time": [1672531200],
    "cloud_cover_mean": [10], "relative_humidity_2m_mean": [80],
    "wind_gusts_10m_mean": [12.5], "wind_speed_10m_mean": [5.1],
    "precipitation_hours": [2], "precipitation_sum": [0.04],
    "temperature_2m_mean": [77.3]
  }
}`

func TestBuildArchiveFetcher_UsesCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(oneDayBody))
	}))
	defer srv.Close()

	cfg := &config.Config{
		ArchiveURL:         srv.URL,
		HTTPTimeout:        time.Second,
		RetryMax:           1,
		RetryBaseDelay:     time.Millisecond,
		RateLimitPerSecond: 1000,
		CacheBackend:       config.CacheSQLite,
		CachePath:          filepath.Join(t.TempDir(), "cache.sqlite"),
	}
	ctx := context.Background()
	cache, err := BuildCache(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer cache.Close()

	f, err := BuildArchiveFetcher(cfg, cache, zap.NewNop())
	require.NoError(t, err)

	city := cities.City{Name: "Test City"}
	for i := 0; i < 3; i++ {
		series, err := f.FetchDaily(ctx, city)
		require.NoError(t, err)
		require.Len(t, series.Records, 1)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBuildCache_UnknownBackend(t *testing.T) {
	_, err := BuildCache(context.Background(), &config.Config{CacheBackend: "disk"}, zap.NewNop())
	assert.Error(t, err)
}

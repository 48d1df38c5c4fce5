package weather

import (
	"context"

	"github.com/namefreezers/weather-archive-export/internal/cities"
	"github.com/namefreezers/weather-archive-export/internal/weather/types"
)

// Fetcher returns the daily archive series for one city.
type Fetcher interface {
	FetchDaily(ctx context.Context, city cities.City) (types.DailySeries, error)
}

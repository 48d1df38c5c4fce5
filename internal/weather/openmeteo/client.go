package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/namefreezers/weather-archive-export/internal/cities"
	"github.com/namefreezers/weather-archive-export/internal/weather/transport"
	"github.com/namefreezers/weather-archive-export/internal/weather/types"
)

// Archive request window.
const (
	StartDate = "2023-01-01"
	EndDate   = "2023-12-31"
)

// Client queries the Open-Meteo historical archive endpoint.
type Client struct {
	baseURL *url.URL
	getter  transport.Getter
	logger  *zap.Logger
}

// NewClient returns a new Client, or an error if the archive URL is unusable.
func NewClient(archiveURL string, getter transport.Getter, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(archiveURL)
	if err != nil {
		return nil, fmt.Errorf("openmeteo: invalid archive URL %q: %w", archiveURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("openmeteo: archive URL %q must be absolute", archiveURL)
	}
	return &Client{baseURL: u, getter: getter, logger: logger}, nil
}

// RequestURL builds the archive query for city. The encoding is
// deterministic, so the URL doubles as a cache key.
func (c *Client) RequestURL(city cities.City) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(city.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(city.Longitude, 'f', -1, 64))
	q.Set("start_date", StartDate)
	q.Set("end_date", EndDate)
	q.Set("daily", strings.Join(types.DailyMetrics[:], ","))
	q.Set("timezone", "auto")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")
	q.Set("precipitation_unit", "inch")
	q.Set("timeformat", "unixtime")

	u := *c.baseURL
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchDaily implements weather.Fetcher.
// It returns the seven daily metrics for the archive window, one record per day.
func (c *Client) FetchDaily(ctx context.Context, city cities.City) (types.DailySeries, error) {
	body, err := c.getter.Get(ctx, c.RequestURL(city))
	if err != nil {
		var se *transport.StatusError
		if errors.As(err, &se) {
			if reason, ok := apiReason(se.Body); ok {
				return types.DailySeries{}, fmt.Errorf("openmeteo: %w: %s (status %d)", ErrAPI, reason, se.StatusCode)
			}
		}
		return types.DailySeries{}, fmt.Errorf("openmeteo: archive request for %q failed: %w", city.Name, err)
	}

	series, err := Decode(body)
	if err != nil {
		return types.DailySeries{}, fmt.Errorf("openmeteo: %q: %w", city.Name, err)
	}
	series.City = city.Name

	loc := series.Location
	c.logger.Info("resolved archive location",
		zap.String("city", city.Name),
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude),
		zap.Float64("elevation_m", loc.Elevation),
		zap.String("timezone", loc.Timezone+" "+loc.TimezoneAbbreviation),
		zap.Int("utc_offset_seconds", loc.UTCOffsetSeconds),
	)
	return series, nil
}

package types

import "time"

// DailyMetrics is the ordered list of daily variables requested from the archive.
// CSV columns and DailyRecord.Values follow this order.
var DailyMetrics = [MetricCount]string{
	"cloud_cover_mean",
	"relative_humidity_2m_mean",
	"wind_gusts_10m_mean",
	"wind_speed_10m_mean",
	"precipitation_hours",
	"precipitation_sum",
	"temperature_2m_mean",
}

// MetricCount is the number of daily variables per record.
const MetricCount = 7

// Location is the grid point the archive resolved the requested coordinates to.
type Location struct {
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Elevation            float64 `json:"elevation"`
	Timezone             string  `json:"timezone"`
	TimezoneAbbreviation string  `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int     `json:"utc_offset_seconds"`
}

// DailyRecord is one calendar day. A nil value is a gap reported by the archive.
type DailyRecord struct {
	Date   time.Time
	Values [MetricCount]*float64
}

// DailySeries is everything fetched for one city.
type DailySeries struct {
	City     string
	Location Location
	Records  []DailyRecord
}

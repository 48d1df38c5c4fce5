package openmeteo

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/namefreezers/weather-archive-export/internal/weather/types"
)

var (
	// ErrMalformedResponse is returned when the daily block does not match the requested shape.
	ErrMalformedResponse = errors.New("malformed archive response")

	// ErrAPI is returned when the archive rejects the request with a reason.
	ErrAPI = errors.New("archive API error")
)

// dailyInterval is the step of the daily block in seconds.
const dailyInterval = 86400

type archiveResponse struct {
	types.Location
	Error  bool                       `json:"error"`
	Reason string                     `json:"reason"`
	Daily  map[string]json.RawMessage `json:"daily"`
}

func apiReason(body []byte) (string, bool) {
	var r struct {
		Error  bool   `json:"error"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &r); err != nil || !r.Error {
		return "", false
	}
	return r.Reason, true
}

// Decode turns an archive JSON body (requested with timeformat=unixtime) into a DailySeries.
// Metrics are matched by name; a missing metric or a length mismatch is an error.
func Decode(body []byte) (types.DailySeries, error) {
	var resp archiveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.DailySeries{}, fmt.Errorf("%w: JSON decode error: %v", ErrMalformedResponse, err)
	}
	if resp.Error {
		return types.DailySeries{}, fmt.Errorf("%w: %s", ErrAPI, resp.Reason)
	}
	if resp.Daily == nil {
		return types.DailySeries{}, fmt.Errorf("%w: no daily block", ErrMalformedResponse)
	}

	rawTime, ok := resp.Daily["time"]
	if !ok {
		return types.DailySeries{}, fmt.Errorf("%w: daily block has no time axis", ErrMalformedResponse)
	}
	var stamps []int64
	if err := json.Unmarshal(rawTime, &stamps); err != nil {
		return types.DailySeries{}, fmt.Errorf("%w: daily time axis: %v", ErrMalformedResponse, err)
	}
	n := len(stamps)

	var columns [types.MetricCount][]*float64
	for i, name := range types.DailyMetrics {
		raw, ok := resp.Daily[name]
		if !ok {
			return types.DailySeries{}, fmt.Errorf("%w: metric %q missing from daily block", ErrMalformedResponse, name)
		}
		if err := json.Unmarshal(raw, &columns[i]); err != nil {
			return types.DailySeries{}, fmt.Errorf("%w: metric %q: %v", ErrMalformedResponse, name, err)
		}
		if len(columns[i]) != n {
			return types.DailySeries{}, fmt.Errorf("%w: metric %q has %d values, time axis has %d",
				ErrMalformedResponse, name, len(columns[i]), n)
		}
	}

	dates := DateRange(stamps, resp.UTCOffsetSeconds, resp.TimezoneAbbreviation)

	records := make([]types.DailyRecord, n)
	for row := range records {
		records[row].Date = dates[row]
		for col := range columns {
			records[row].Values[col] = columns[col][row]
		}
	}

	return types.DailySeries{Location: resp.Location, Records: records}, nil
}

// DateRange builds the day sequence [start, end) stepped by one day, where start is
// the first timestamp and end is one interval past the last. Dates are expressed in
// the response timezone given by its UTC offset.
func DateRange(stamps []int64, utcOffsetSeconds int, abbreviation string) []time.Time {
	if len(stamps) == 0 {
		return nil
	}
	zone := time.FixedZone(abbreviation, utcOffsetSeconds)
	start := stamps[0]
	end := start + int64(len(stamps))*dailyInterval

	dates := make([]time.Time, 0, len(stamps))
	for ts := start; ts < end; ts += dailyInterval {
		dates = append(dates, time.Unix(ts, 0).In(zone))
	}
	return dates
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/namefreezers/weather-archive-export/internal/weather/types"
)

// DateLayout is the format of the date column.
const DateLayout = "2006-01-02"

// Header returns the CSV header row.
func Header() []string {
	return append([]string{"date"}, types.DailyMetrics[:]...)
}

// Path returns the output file for a city.
func Path(dir, city string) string {
	return filepath.Join(dir, city+".csv")
}

// Encode writes series as header plus one row per record.
func Encode(w io.Writer, series types.DailySeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	row := make([]string, 1+types.MetricCount)
	for _, rec := range series.Records {
		row[0] = rec.Date.Format(DateLayout)
		for i, v := range rec.Values {
			if v == nil {
				row[i+1] = ""
				continue
			}
			row[i+1] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes series to <dir>/<city>.csv, replacing any previous file.
// The data goes to a temporary file first, so a failed write leaves the old file untouched.
func WriteCSV(dir string, series types.DailySeries) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %q: %w", dir, err)
	}
	path := Path(dir, series.City)

	tmp, err := os.CreateTemp(dir, ".weather-*.csv.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := Encode(tmp, series); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file for %q: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod temp file for %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("replace %q: %w", path, err)
	}
	return path, nil
}

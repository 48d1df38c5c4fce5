package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/namefreezers/weather-archive-export/internal/weather/types"
)

const dateLayout = "2006-01-02"

// DailyWeather is one stored day for one city.
type DailyWeather struct {
	City                   string    `db:"city"                      json:"city"`
	Date                   time.Time `db:"date"                      json:"date"`
	RunID                  uuid.UUID `db:"run_id"                    json:"run_id"`
	CloudCoverMean         *float64  `db:"cloud_cover_mean"          json:"cloud_cover_mean"`
	RelativeHumidity2mMean *float64  `db:"relative_humidity_2m_mean" json:"relative_humidity_2m_mean"`
	WindGusts10mMean       *float64  `db:"wind_gusts_10m_mean"       json:"wind_gusts_10m_mean"`
	WindSpeed10mMean       *float64  `db:"wind_speed_10m_mean"       json:"wind_speed_10m_mean"`
	PrecipitationHours     *float64  `db:"precipitation_hours"       json:"precipitation_hours"`
	PrecipitationSum       *float64  `db:"precipitation_sum"         json:"precipitation_sum"`
	Temperature2mMean      *float64  `db:"temperature_2m_mean"       json:"temperature_2m_mean"`
	UpdatedAt              time.Time `db:"updated_at"                json:"updated_at"`
}

// DailyWeatherRepository persists exported series and serves them back.
type DailyWeatherRepository interface {
	EnsureSchema(ctx context.Context) error
	UpsertSeries(ctx context.Context, runID uuid.UUID, series types.DailySeries) error
	ListByCity(ctx context.Context, city string, from, to time.Time) ([]DailyWeather, error)
	ListCities(ctx context.Context) ([]string, error)
}

type pgRepo struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDailyWeatherRepository(db *sqlx.DB, logger *zap.Logger) DailyWeatherRepository {
	return &pgRepo{db: db, logger: logger}
}

const schema = `
CREATE TABLE IF NOT EXISTS daily_weather (
    city                      TEXT        NOT NULL,
    date                      DATE        NOT NULL,
    run_id                    UUID        NOT NULL,
    cloud_cover_mean          DOUBLE PRECISION,
    relative_humidity_2m_mean DOUBLE PRECISION,
    wind_gusts_10m_mean       DOUBLE PRECISION,
    wind_speed_10m_mean       DOUBLE PRECISION,
    precipitation_hours       DOUBLE PRECISION,
    precipitation_sum         DOUBLE PRECISION,
    temperature_2m_mean       DOUBLE PRECISION,
    updated_at                TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (city, date)
);`

func (r *pgRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		r.logger.Error("failed to create daily_weather schema", zap.Error(err))
		return err
	}
	return nil
}

func (r *pgRepo) UpsertSeries(ctx context.Context, runID uuid.UUID, series types.DailySeries) (err error) {
	const q = `
        INSERT INTO daily_weather (
            city, date, run_id,
            cloud_cover_mean, relative_humidity_2m_mean, wind_gusts_10m_mean, wind_speed_10m_mean,
            precipitation_hours, precipitation_sum, temperature_2m_mean, updated_at)
        VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, now())
        ON CONFLICT (city, date) DO UPDATE SET
            run_id                    = EXCLUDED.run_id,
            cloud_cover_mean          = EXCLUDED.cloud_cover_mean,
            relative_humidity_2m_mean = EXCLUDED.relative_humidity_2m_mean,
            wind_gusts_10m_mean       = EXCLUDED.wind_gusts_10m_mean,
            wind_speed_10m_mean       = EXCLUDED.wind_speed_10m_mean,
            precipitation_hours       = EXCLUDED.precipitation_hours,
            precipitation_sum         = EXCLUDED.precipitation_sum,
            temperature_2m_mean       = EXCLUDED.temperature_2m_mean,
            updated_at                = now();
    `

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin upsert transaction", zap.String("city", series.City), zap.Error(err))
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Warn("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	for _, rec := range series.Records {
		v := rec.Values
		if _, err = tx.ExecContext(ctx, q,
			series.City, rec.Date.Format(dateLayout), runID,
			v[0], v[1], v[2], v[3], v[4], v[5], v[6],
		); err != nil {
			r.logger.Error("failed to upsert daily weather",
				zap.String("city", series.City),
				zap.String("date", rec.Date.Format(dateLayout)),
				zap.Error(err),
			)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("failed to commit daily weather", zap.String("city", series.City), zap.Error(err))
		return err
	}
	r.logger.Debug("daily weather stored",
		zap.String("city", series.City),
		zap.String("run_id", runID.String()),
		zap.Int("rows", len(series.Records)),
	)
	return nil
}

func (r *pgRepo) ListByCity(ctx context.Context, city string, from, to time.Time) ([]DailyWeather, error) {
	const q = `
        SELECT * FROM daily_weather
        WHERE city = $1
          AND date >= $2::date
          AND date <= $3::date
        ORDER BY date;
    `
	var rows []DailyWeather
	if err := r.db.SelectContext(ctx, &rows, q, city, from.Format(dateLayout), to.Format(dateLayout)); err != nil {
		r.logger.Error("failed to list daily weather", zap.String("city", city), zap.Error(err))
		return nil, fmt.Errorf("list daily weather for %q: %w", city, err)
	}
	r.logger.Debug("fetched daily weather", zap.String("city", city), zap.Int("count", len(rows)))
	return rows, nil
}

func (r *pgRepo) ListCities(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT city FROM daily_weather ORDER BY city;`
	var names []string
	if err := r.db.SelectContext(ctx, &names, q); err != nil {
		r.logger.Error("failed to list cities", zap.Error(err))
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return names, nil
}

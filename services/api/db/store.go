package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const ensureSchemaSQL = `
CREATE SCHEMA IF NOT EXISTS shizuku;
CREATE TABLE IF NOT EXISTS shizuku.temperature_observations (
    id                  BIGSERIAL,
    dt                  DATE NOT NULL,
    country             TEXT NOT NULL,
    city                TEXT NOT NULL,
    average_temperature DOUBLE PRECISION,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (dt, country, city)
);
`

// EnsureSchema creates the observations table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, ensureSchemaSQL)
	return err
}

const listObservationsSQL = `
    SELECT dt, country, city, average_temperature
    FROM shizuku.temperature_observations
    ORDER BY id
`

// ListObservations returns every stored row in import order. Rows without a
// temperature are included; climate.NewDataset drops them.
func (s *Store) ListObservations(ctx context.Context) ([]climate.Record, error) {
	rows, err := s.pool.Query(ctx, listObservationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]climate.Record, 0)
	for rows.Next() {
		var r climate.Record
		if err := rows.Scan(
			&r.Date,
			&r.Country,
			&r.City,
			&r.AverageTemperature,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountObservations returns the number of stored rows.
func (s *Store) CountObservations(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shizuku.temperature_observations`).Scan(&n)
	return n, err
}

const upsertObservationSQL = `
INSERT INTO shizuku.temperature_observations (dt, country, city, average_temperature, created_at, updated_at)
VALUES ($1,$2,$3,$4,NOW(),NOW())
ON CONFLICT (dt, country, city) DO UPDATE
SET average_temperature = EXCLUDED.average_temperature,
    updated_at = NOW()`

// UpsertObservations writes records in batches of batchSize (all at once when
// batchSize <= 0). Existing (dt, country, city) rows are overwritten.
func (s *Store) UpsertObservations(ctx context.Context, records []climate.Record, batchSize int) error {
	if len(records) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(records)
	}

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.upsertBatch(ctx, records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) upsertBatch(ctx context.Context, records []climate.Record) error {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertObservationSQL, dateOnly(r.Date), r.Country, r.City, r.AverageTemperature)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range records {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

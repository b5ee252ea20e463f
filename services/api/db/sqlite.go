package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

const sqliteDateLayout = "2006-01-02"

// SQLiteStore keeps observations in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single writer avoids SQLITE_BUSY during imports
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS temperature_observations (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    dt                  TEXT NOT NULL,
    country             TEXT NOT NULL,
    city                TEXT NOT NULL,
    average_temperature REAL,
    UNIQUE (dt, country, city)
)`

// EnsureSchema creates the observations table if it does not exist yet.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchemaSQL)
	return err
}

// ListObservations returns every stored row in import order.
func (s *SQLiteStore) ListObservations(ctx context.Context) ([]climate.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dt, country, city, average_temperature
		FROM temperature_observations
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]climate.Record, 0)
	for rows.Next() {
		var (
			r  climate.Record
			dt string
		)
		if err := rows.Scan(&dt, &r.Country, &r.City, &r.AverageTemperature); err != nil {
			return nil, err
		}
		r.Date, err = time.Parse(sqliteDateLayout, dt)
		if err != nil {
			return nil, fmt.Errorf("row %s/%s: invalid dt %q: %w", r.Country, r.City, dt, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountObservations returns the number of stored rows.
func (s *SQLiteStore) CountObservations(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM temperature_observations`).Scan(&n)
	return n, err
}

// InsertObservations upserts records inside a single transaction.
func (s *SQLiteStore) InsertObservations(ctx context.Context, records []climate.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO temperature_observations (dt, country, city, average_temperature)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (dt, country, city) DO UPDATE
		SET average_temperature = excluded.average_temperature`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Date.Format(sqliteDateLayout), r.Country, r.City, r.AverageTemperature); err != nil {
			return err
		}
	}
	return tx.Commit()
}

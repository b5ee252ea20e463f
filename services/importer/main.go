package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/dataset"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/db"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/importer/internal/config"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/importer/internal/prepare"
)

// sink is the storage side of an import run.
type sink interface {
	EnsureSchema(ctx context.Context) error
	ListObservations(ctx context.Context) ([]climate.Record, error)
	CountObservations(ctx context.Context) (int, error)
	Write(ctx context.Context, records []climate.Record) error
	Close()
}

type postgresSink struct {
	*db.Store
	batchSize int
}

func (p postgresSink) Write(ctx context.Context, records []climate.Record) error {
	return p.UpsertObservations(ctx, records, p.batchSize)
}

type sqliteSink struct {
	*db.SQLiteStore
}

func (s sqliteSink) Write(ctx context.Context, records []climate.Record) error {
	return s.InsertObservations(ctx, records)
}

func (s sqliteSink) Close() {
	if err := s.SQLiteStore.Close(); err != nil {
		log.Printf("sqlite close error: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("importer failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if _, err := run(ctx, cfg); err != nil {
		log.Fatalf("importer failed: %v", err)
	}
}

// run imports cfg.CSVPath into the configured store and returns how many
// observations were written. A dry run writes nothing.
func run(ctx context.Context, cfg config.Config) (int, error) {
	parsed, err := parseFile(cfg.CSVPath)
	if err != nil {
		return 0, err
	}
	log.Printf("parsed %d records from %s (skipped=%d missing_temperature=%d)",
		len(parsed.Records), cfg.CSVPath, parsed.Skipped, prepare.CountMissing(parsed.Records))

	out, err := openSink(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	if err := out.EnsureSchema(ctx); err != nil {
		return 0, err
	}

	existing, err := out.ListObservations(ctx)
	if err != nil {
		return 0, err
	}

	candidates := prepare.Deduplicate(parsed.Records)
	pending := prepare.FilterChanged(candidates, prepare.IndexExisting(existing), cfg.ValueEpsilon)

	if len(pending) == 0 {
		stored, err := out.CountObservations(ctx)
		if err != nil {
			return 0, err
		}
		log.Printf("no new observations to write (stored=%d)", stored)
		return 0, nil
	}

	log.Printf("prepared %d new or changed observations (dry-run=%v)", len(pending), cfg.DryRun)

	if cfg.DryRun {
		for _, r := range pending {
			log.Printf("dry-run: would write dt=%s country=%s city=%s value=%s",
				r.Date.Format("2006-01-02"), r.Country, r.City, prepare.ValuePtrString(r.AverageTemperature))
		}
		return 0, nil
	}

	if err := out.Write(ctx, pending); err != nil {
		return 0, err
	}

	log.Printf("wrote %d observations to %s", len(pending), cfg.Target)
	return len(pending), nil
}

func parseFile(path string) (dataset.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.ParseResult{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return dataset.ParseCSV(f)
}

func openSink(ctx context.Context, cfg config.Config) (sink, error) {
	if cfg.Target == "sqlite" {
		store, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqliteSink{store}, nil
	}
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return postgresSink{Store: store, batchSize: cfg.BatchSize}, nil
}

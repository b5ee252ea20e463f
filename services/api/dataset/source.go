package dataset

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

// Source loads a complete dataset snapshot.
type Source interface {
	Name() string
	Load(ctx context.Context) (*climate.Dataset, error)
}

// RecordLister is satisfied by db.Store and db.SQLiteStore.
type RecordLister interface {
	ListObservations(ctx context.Context) ([]climate.Record, error)
}

// CSVSource reads the dataset from a CSV file on disk.
type CSVSource struct {
	Path string
}

func (s CSVSource) Name() string {
	return "csv:" + s.Path
}

// Load parses the whole file. Malformed rows are skipped and logged.
func (s CSVSource) Load(ctx context.Context) (*climate.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	res, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	if res.Skipped > 0 {
		log.Printf("dataset: skipped %d malformed rows in %s", res.Skipped, s.Path)
	}
	return climate.NewDataset(res.Records), nil
}

// DatabaseSource reads the dataset from a table of observations.
type DatabaseSource struct {
	Label string
	Store RecordLister
}

func (s DatabaseSource) Name() string {
	return s.Label
}

func (s DatabaseSource) Load(ctx context.Context) (*climate.Dataset, error) {
	records, err := s.Store.ListObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	return climate.NewDataset(records), nil
}

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/db"
)

type fakeLister struct {
	records []climate.Record
	err     error
	calls   int
}

func (f *fakeLister) ListObservations(context.Context) ([]climate.Record, error) {
	f.calls++
	return f.records, f.err
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "temps.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVSource_Load(t *testing.T) {
	src := CSVSource{Path: writeCSV(t, sampleCSV)}

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len(), "the row without a temperature is dropped")
	assert.Equal(t, []string{"Côte D'Ivoire", "China"}, ds.Countries())
	assert.Contains(t, src.Name(), "temps.csv")
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv")}.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CSVSource{Path: writeCSV(t, sampleCSV)}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDatabaseSource_Load(t *testing.T) {
	v := 12.5
	lister := &fakeLister{records: []climate.Record{
		{Date: time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC), Country: "Peru", City: "Lima", AverageTemperature: &v},
		{Date: time.Date(2001, 6, 1, 0, 0, 0, 0, time.UTC), Country: "Peru", City: "Lima"},
	}}

	ds, err := DatabaseSource{Label: "fake", Store: lister}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestDatabaseSource_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := DatabaseSource{Label: "fake", Store: &fakeLister{err: boom}}.Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDatabaseSource_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := db.OpenSQLite(filepath.Join(t.TempDir(), "climate.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.EnsureSchema(ctx))

	res, err := ParseCSV(mustOpen(t, writeCSV(t, sampleCSV)))
	require.NoError(t, err)
	require.NoError(t, store.InsertObservations(ctx, res.Records))

	ds, err := DatabaseSource{Label: "sqlite", Store: store}.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	lo, hi, ok := ds.YearBounds()
	require.True(t, ok)
	assert.Equal(t, 1849, lo)
	assert.Equal(t, 2013, hi)
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

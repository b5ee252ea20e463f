package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

func TestReloader_NotLoaded(t *testing.T) {
	r := NewReloader(DatabaseSource{Label: "fake", Store: &fakeLister{}})

	_, _, err := r.Current()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Equal(t, "fake", r.SourceName())
}

func TestReloader_SwapsOnSuccessOnly(t *testing.T) {
	v := 3.0
	lister := &fakeLister{records: []climate.Record{
		{Date: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), Country: "Peru", City: "Lima", AverageTemperature: &v},
	}}
	r := NewReloader(DatabaseSource{Label: "fake", Store: lister})

	require.NoError(t, r.Reload(context.Background()))
	first, loadedAt, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, first.Len())
	assert.False(t, loadedAt.IsZero())

	lister.err = errors.New("database down")
	assert.Error(t, r.Reload(context.Background()))

	kept, keptAt, err := r.Current()
	require.NoError(t, err)
	assert.Same(t, first, kept, "a failed reload keeps serving the previous snapshot")
	assert.Equal(t, loadedAt, keptAt)

	lister.err = nil
	lister.records = append(lister.records, lister.records[0])
	require.NoError(t, r.Reload(context.Background()))
	fresh, _, err := r.Current()
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
	assert.Equal(t, 2, fresh.Len())
	assert.Equal(t, 1, first.Len(), "old snapshot is never mutated")
}

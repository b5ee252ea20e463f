package dataset

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

// ErrNotLoaded is returned by Current before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

type snapshot struct {
	dataset  *climate.Dataset
	loadedAt time.Time
}

// Reloader owns the dataset currently served. Readers get an immutable
// snapshot; Reload replaces it wholesale, so readers never need a lock.
type Reloader struct {
	source  Source
	current atomic.Pointer[snapshot]
	// serialises Reload calls; readers never take it
	mu sync.Mutex
}

// NewReloader creates a Reloader with nothing loaded yet.
func NewReloader(source Source) *Reloader {
	return &Reloader{source: source}
}

// SourceName describes where datasets come from.
func (r *Reloader) SourceName() string {
	return r.source.Name()
}

// Reload loads a fresh dataset. On failure the previous snapshot stays in place.
func (r *Reloader) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	ds, err := r.source.Load(ctx)
	if err != nil {
		return err
	}
	r.current.Store(&snapshot{dataset: ds, loadedAt: time.Now().UTC()})
	log.Printf("dataset: loaded %d observations from %s in %s", ds.Len(), r.source.Name(), time.Since(start).Round(time.Millisecond))
	return nil
}

// Current returns the latest loaded dataset and when it was loaded.
func (r *Reloader) Current() (*climate.Dataset, time.Time, error) {
	snap := r.current.Load()
	if snap == nil {
		return nil, time.Time{}, ErrNotLoaded
	}
	return snap.dataset, snap.loadedAt, nil
}

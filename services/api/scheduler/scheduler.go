package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Reloadable is anything that can refresh itself, e.g. dataset.Reloader.
type Reloadable interface {
	Reload(ctx context.Context) error
}

// Scheduler periodically reloads the served dataset.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Reloadable
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. An interval <= 0 disables reloading.
func New(target Reloadable, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// a slow reload must never overlap the next one
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
		timeout:   5 * time.Minute,
	}
}

// Start schedules the reload job and starts the underlying scheduler. The
// first run happens one interval from now; the caller performs the initial load.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: dataset reload disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.target.Reload(ctx); err != nil {
			log.Printf("scheduler: dataset reload failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: reloading dataset every %s", s.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Package scheduler drives the feed refresh and display rotation timers and
// coordinates them behind a Controller.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	// DefaultRefreshInterval is how often the feed is fetched.
	DefaultRefreshInterval = 5 * time.Minute
	// DefaultRotationInterval is how often the display mode advances when rotating.
	DefaultRotationInterval = 8 * time.Second
)

// repeatingTimer runs job every interval on its own gocron scheduler.
// The first run happens one interval after Start.
type repeatingTimer struct {
	name     string
	interval time.Duration
	job      func()

	mu        sync.Mutex
	scheduler *gocron.Scheduler
}

func newRepeatingTimer(name string, interval time.Duration, job func()) *repeatingTimer {
	return &repeatingTimer{
		name:     name,
		interval: interval,
		job:      job,
	}
}

// Start schedules the job. Starting a running timer is a no-op.
func (t *repeatingTimer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.scheduler != nil {
		return nil
	}
	if t.interval <= 0 {
		return fmt.Errorf("%s timer: interval must be positive, got %s", t.name, t.interval)
	}

	s := gocron.NewScheduler(time.UTC)
	s.WaitForScheduleAll()
	if _, err := s.Every(t.interval).Do(t.job); err != nil {
		return fmt.Errorf("%s timer: %w", t.name, err)
	}
	s.StartAsync()

	t.scheduler = s
	return nil
}

// Stop cancels the job and releases the scheduler. Safe to call repeatedly.
func (t *repeatingTimer) Stop() {
	t.mu.Lock()
	s := t.scheduler
	t.scheduler = nil
	t.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}

// Running reports whether the timer currently holds a scheduler.
func (t *repeatingTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheduler != nil && t.scheduler.IsRunning()
}

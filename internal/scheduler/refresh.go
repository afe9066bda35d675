package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/i474232898/weather-ticker/internal/weather"
)

// FetchFunc performs one feed fetch.
type FetchFunc func(ctx context.Context) (weather.FeedSnapshot, error)

// ResultFunc receives the outcome of a fetch started by a RefreshScheduler.
type ResultFunc func(snapshot weather.FeedSnapshot, err error)

const (
	stateIdle int32 = iota
	stateFetching
)

// RefreshScheduler fetches the feed on a fixed cadence with at most one fetch in flight.
type RefreshScheduler struct {
	fetch    FetchFunc
	onResult ResultFunc
	logger   *slog.Logger

	timer *repeatingTimer
	state atomic.Int32
}

// NewRefreshScheduler creates a stopped RefreshScheduler.
func NewRefreshScheduler(interval time.Duration, fetch FetchFunc, onResult ResultFunc, logger *slog.Logger) *RefreshScheduler {
	r := &RefreshScheduler{
		fetch:    fetch,
		onResult: onResult,
		logger:   logger,
	}
	r.timer = newRepeatingTimer("refresh", interval, func() { r.Tick() })
	return r
}

// Start begins the cadence. It does not fetch immediately; call Tick for that.
func (r *RefreshScheduler) Start() error {
	return r.timer.Start()
}

// Stop cancels the cadence. A fetch already in flight still completes.
func (r *RefreshScheduler) Stop() {
	r.timer.Stop()
}

// Running reports whether the cadence is active.
func (r *RefreshScheduler) Running() bool {
	return r.timer.Running()
}

// Fetching reports whether a fetch is in flight.
func (r *RefreshScheduler) Fetching() bool {
	return r.state.Load() == stateFetching
}

// Tick starts a fetch in the background unless one is already in flight.
// It reports whether a fetch was started.
func (r *RefreshScheduler) Tick() bool {
	if !r.state.CompareAndSwap(stateIdle, stateFetching) {
		r.logger.Debug("refresh tick dropped, fetch already in flight")
		return false
	}

	go func() {
		defer r.state.Store(stateIdle)

		r.logger.Debug("running feed refresh")
		snapshot, err := r.fetch(context.Background())
		r.onResult(snapshot, err)
	}()
	return true
}

package scheduler

import "time"

// RotationScheduler calls onTick on a fixed cadence to advance the display mode.
type RotationScheduler struct {
	onTick func()
	timer  *repeatingTimer
}

// NewRotationScheduler creates a stopped RotationScheduler.
func NewRotationScheduler(interval time.Duration, onTick func()) *RotationScheduler {
	r := &RotationScheduler{onTick: onTick}
	r.timer = newRepeatingTimer("rotation", interval, r.Tick)
	return r
}

// Start begins the cadence. The first advance happens one interval later.
func (r *RotationScheduler) Start() error {
	return r.timer.Start()
}

// Stop cancels the cadence.
func (r *RotationScheduler) Stop() {
	r.timer.Stop()
}

// Running reports whether the cadence is active.
func (r *RotationScheduler) Running() bool {
	return r.timer.Running()
}

// Tick advances the rotation once.
func (r *RotationScheduler) Tick() {
	r.onTick()
}

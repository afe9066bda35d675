package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/weather-ticker/internal/weather"
)

// Options tunes the cadences of a Controller. Zero values select the defaults.
type Options struct {
	RefreshInterval  time.Duration
	RotationInterval time.Duration
}

// Status is a point-in-time view of the controller for the outer shell.
type Status struct {
	Text      string              `json:"text"`
	Mode      weather.DisplayMode `json:"mode"`
	ModeName  string              `json:"modeName"`
	Rotating  bool                `json:"rotating"`
	Fetching  bool                `json:"fetching"`
	LastError string              `json:"lastError,omitempty"`
}

type listener struct {
	id int
	fn func(text string)
}

// Controller owns the refresh and rotation schedulers and derives the display text.
type Controller struct {
	provider weather.Provider
	store    weather.Store
	logger   *slog.Logger
	opts     Options

	// lifecycle serializes Configure and Shutdown.
	lifecycle sync.Mutex

	mu         sync.Mutex
	cfg        weather.Config
	configured bool
	mode       weather.DisplayMode
	generation uint64
	lastErr    error
	refresh    *RefreshScheduler
	rotation   *RotationScheduler

	notifyMu     sync.Mutex
	listeners    []listener
	nextListener int
	lastSent     string
	sentAny      bool
}

// NewController creates an unconfigured Controller. Call Configure to start it.
func NewController(provider weather.Provider, store weather.Store, opts Options, logger *slog.Logger) *Controller {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.RotationInterval <= 0 {
		opts.RotationInterval = DefaultRotationInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		provider: provider,
		store:    store,
		logger:   logger.With("component", "scheduler"),
		opts:     opts,
	}
}

// Configure replaces any running timers with ones built from cfg and triggers
// an immediate fetch. Calling it again with the same cfg leaves one timer of each kind.
func (c *Controller) Configure(cfg weather.Config) error {
	if !cfg.DisplayMode.Valid() {
		return fmt.Errorf("%w: %d", weather.ErrInvalidMode, int(cfg.DisplayMode))
	}
	if cfg.RotationEnabled {
		cfg.DisplayMode = weather.ModeSummary
	}

	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	prevRefresh, prevRotation := c.refresh, c.rotation

	if c.configured && (c.cfg.Location != cfg.Location || c.cfg.Units != cfg.Units) {
		c.store.Reset()
	}
	c.cfg = cfg
	c.configured = true
	c.mode = cfg.DisplayMode
	c.lastErr = nil

	c.refresh = nil
	if cfg.APIKey != "" {
		c.refresh = NewRefreshScheduler(
			c.opts.RefreshInterval,
			c.fetchFunc(cfg),
			func(snapshot weather.FeedSnapshot, err error) { c.applyResult(gen, snapshot, err) },
			c.logger,
		)
	}
	c.rotation = nil
	if cfg.RotationEnabled {
		c.rotation = NewRotationScheduler(c.opts.RotationInterval, func() { c.rotate(gen) })
	}
	refresh, rotation := c.refresh, c.rotation
	c.mu.Unlock()

	stopAll(prevRefresh, prevRotation)

	c.logger.Info("scheduler configured",
		"location", cfg.Location.Key(),
		"units", cfg.Units.String(),
		"mode", cfg.DisplayMode.String(),
		"rotation", cfg.RotationEnabled,
	)

	var startErr error
	if refresh != nil {
		if r, ok := c.provider.(weather.CircuitResetter); ok {
			r.ResetCircuit()
		}
		if err := refresh.Start(); err != nil {
			startErr = errors.Join(startErr, err)
		}
		refresh.Tick()
	} else {
		c.logger.Warn("no api key configured; feed will not be fetched")
	}
	if rotation != nil {
		if err := rotation.Start(); err != nil {
			startErr = errors.Join(startErr, err)
		}
	}

	c.recompute()
	return startErr
}

// Shutdown stops both timers. Results of fetches still in flight are discarded.
// Safe to call more than once.
func (c *Controller) Shutdown() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	c.generation++
	refresh, rotation := c.refresh, c.rotation
	c.refresh, c.rotation = nil, nil
	c.mu.Unlock()

	if refresh != nil || rotation != nil {
		c.logger.Info("scheduler shutting down")
	}
	stopAll(refresh, rotation)
}

func stopAll(refresh *RefreshScheduler, rotation *RotationScheduler) {
	if refresh != nil {
		refresh.Stop()
	}
	if rotation != nil {
		rotation.Stop()
	}
}

func (c *Controller) fetchFunc(cfg weather.Config) FetchFunc {
	return func(ctx context.Context) (weather.FeedSnapshot, error) {
		return c.provider.Fetch(ctx, cfg.Location, cfg.APIKey, cfg.Units)
	}
}

// applyResult stores a fetch outcome unless the configuration it was started
// under has since been replaced or shut down.
func (c *Controller) applyResult(gen uint64, snapshot weather.FeedSnapshot, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding result from superseded configuration", "error", err)
		return
	}

	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Warn("feed refresh failed", "provider", c.provider.Name(), "error", err)
	} else {
		c.lastErr = nil
		if !c.store.SaveSnapshot(snapshot) {
			c.logger.Debug("ignoring snapshot older than the stored one", "fetched_at", snapshot.FetchedAt)
		}
		c.mu.Unlock()
		c.logger.Debug("feed refreshed", "provider", c.provider.Name(), "fetched_at", snapshot.FetchedAt)
	}

	c.recompute()
}

func (c *Controller) rotate(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || !c.cfg.RotationEnabled {
		c.mu.Unlock()
		return
	}
	c.mode = c.mode.Next()
	c.mu.Unlock()

	c.recompute()
}

// CurrentDisplayText returns the text for the latest snapshot in the current mode.
// It is safe to call at any time, including before Configure.
func (c *Controller) CurrentDisplayText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayTextLocked()
}

func (c *Controller) displayTextLocked() string {
	if !c.configured {
		return weather.TextFetching
	}
	if c.cfg.APIKey == "" {
		return weather.TextNoAPIKey
	}

	snapshot, err := c.store.GetLatest()
	if err != nil {
		if c.lastErr != nil {
			return weather.TextBadAPICall
		}
		return weather.TextFetching
	}

	text, err := weather.Render(&snapshot, c.mode, c.cfg.Units)
	if errors.Is(err, weather.ErrInvalidMode) {
		c.logger.Error("display mode out of range", "mode", int(c.mode))
	}
	return text
}

// CurrentMode returns the display mode in effect.
func (c *Controller) CurrentMode() weather.DisplayMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Config returns the configuration in effect and whether Configure has been called.
func (c *Controller) Config() (weather.Config, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg, c.configured
}

// Settings returns the settings block currently applied and whether Configure has been called.
func (c *Controller) Settings() (weather.Settings, bool) {
	cfg, ok := c.Config()
	return weather.SettingsFromConfig(cfg), ok
}

// Latest returns the most recent snapshot held by the store.
func (c *Controller) Latest() (weather.FeedSnapshot, error) {
	return c.store.GetLatest()
}

// Status returns the display text together with scheduler state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Text:     c.displayTextLocked(),
		Mode:     c.mode,
		ModeName: c.mode.String(),
		Rotating: c.cfg.RotationEnabled && c.rotation != nil,
		Fetching: c.refresh != nil && c.refresh.Fetching(),
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

// Subscribe registers fn to receive the display text whenever it changes.
// fn must not call Configure, Shutdown or the returned cancel func.
func (c *Controller) Subscribe(fn func(text string)) (cancel func()) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	return func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// recompute derives the display text and delivers it to subscribers if it changed.
// Deliveries are serialized so the last one always carries the newest text.
func (c *Controller) recompute() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	text := c.CurrentDisplayText()
	if c.sentAny && text == c.lastSent {
		return
	}
	c.lastSent = text
	c.sentAny = true

	for _, l := range c.listeners {
		l.fn(text)
	}
}

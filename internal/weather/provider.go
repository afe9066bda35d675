package weather

import (
	"context"
)

// Provider abstracts the weather feed (e.g. the OpenWeatherMap one-call API).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location, apiKey string, units Units) (FeedSnapshot, error)
}

// Store is the contract the in-memory feed store must satisfy.
type Store interface {
	// SaveSnapshot replaces the latest snapshot. It reports false when snapshot
	// is older than the one already held.
	SaveSnapshot(snapshot FeedSnapshot) bool
	GetLatest() (FeedSnapshot, error)
	Reset()
}

// CircuitResetter is implemented by providers that guard requests with a
// circuit breaker. ResetCircuit closes the breaker so the next Fetch reaches the feed.
type CircuitResetter interface {
	ResetCircuit()
}

package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-ticker/internal/weather"
)

var (
	// ErrNotFound is returned when no snapshot has been stored yet.
	ErrNotFound = errors.New("no feed snapshot available")
)

// MemoryStore is a concurrency-safe in-memory holder of the most recent feed snapshot.
type MemoryStore struct {
	mu sync.RWMutex

	latest *weather.FeedSnapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveSnapshot replaces the held snapshot unless snapshot was fetched before it.
func (s *MemoryStore) SaveSnapshot(snapshot weather.FeedSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != nil && snapshot.FetchedAt.Before(s.latest.FetchedAt) {
		return false
	}

	s.latest = &snapshot
	return true
}

// GetLatest returns the most recent snapshot.
func (s *MemoryStore) GetLatest() (weather.FeedSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return weather.FeedSnapshot{}, ErrNotFound
	}
	return *s.latest, nil
}

// Reset drops the held snapshot.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	s.latest = nil
	s.mu.Unlock()
}

// Package cache holds recently fetched player records in memory.
//
// An entry is served while younger than the freshness window. Stale entries are
// not touched by reads; every write sweeps out entries older than the eviction
// threshold. There is no background goroutine and no size bound.
package cache

import (
	"mkworld-overlay/internal/config"
	"mkworld-overlay/internal/domain"
	"mkworld-overlay/internal/metrics"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	record   domain.PlayerRecord
	storedAt time.Time
}

type Store struct {
	mu        sync.RWMutex
	entries   map[string]entry
	clock     clockwork.Clock
	freshness time.Duration
	eviction  time.Duration
	metrics   *metrics.Metrics
}

func New(clock clockwork.Clock, freshness, eviction time.Duration, m *metrics.Metrics) *Store {
	if m == nil {
		m = metrics.Nop()
	}
	return &Store{
		entries:   make(map[string]entry),
		clock:     clock,
		freshness: freshness,
		eviction:  eviction,
		metrics:   m,
	}
}

func NewFromConfig(cfg *config.Config, clock clockwork.Clock, m *metrics.Metrics) *Store {
	return New(clock, cfg.CacheFreshness, cfg.CacheEviction, m)
}

// Lookup returns the record for key if it is still fresh.
func (s *Store) Lookup(key string) (domain.PlayerRecord, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.clock.Since(e.storedAt) >= s.freshness {
		return domain.PlayerRecord{}, false
	}
	return e.record, true
}

// Store replaces the entry for key and sweeps every entry that has reached
// the eviction age. It returns how many entries the sweep removed.
func (s *Store) Store(key string, record domain.PlayerRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.entries[key] = entry{record: record, storedAt: now}

	removed := 0
	for k, e := range s.entries {
		if now.Sub(e.storedAt) >= s.eviction {
			delete(s.entries, k)
			removed++
		}
	}

	s.metrics.CacheEntries.Set(float64(len(s.entries)))
	if removed > 0 {
		s.metrics.CacheEvictions.Add(float64(removed))
	}
	return removed
}

// Len counts entries physically present, stale ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

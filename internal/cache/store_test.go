package cache

import (
	"fmt"
	"mkworld-overlay/internal/domain"
	"mkworld-overlay/internal/metrics"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*Store, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return New(clock, 60*time.Second, 120*time.Second, metrics.Nop()), clock
}

func record(name string, mmr float64) domain.PlayerRecord {
	return domain.PlayerRecord{Name: name, Mmr: &mmr, Rank: "Gold"}
}

func TestStoreThenLookupRoundTrip(t *testing.T) {
	s, _ := newTestStore()
	want := record("Foo", 8123)

	s.Store("foo:mkworld24p", want)

	got, ok := s.Lookup("foo:mkworld24p")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestLookupMissingKey(t *testing.T) {
	s, _ := newTestStore()

	_, ok := s.Lookup("nobody:mkworld24p")
	assert.False(t, ok)
}

func TestLookupStaleAfterFreshnessWindow(t *testing.T) {
	s, clock := newTestStore()
	s.Store("foo:mkworld24p", record("Foo", 1))

	clock.Advance(59 * time.Second)
	_, ok := s.Lookup("foo:mkworld24p")
	assert.True(t, ok, "59s old entry should be fresh")

	clock.Advance(1 * time.Second)
	_, ok = s.Lookup("foo:mkworld24p")
	assert.False(t, ok, "60s old entry should be stale")

	assert.Equal(t, 1, s.Len(), "lookup must not evict")
}

func TestStoreSweepsOnlyEntriesPastEviction(t *testing.T) {
	s, clock := newTestStore()

	s.Store("old:mkworld24p", record("Old", 1))
	clock.Advance(100 * time.Second)
	s.Store("young:mkworld24p", record("Young", 2))
	clock.Advance(20 * time.Second)

	// old is now exactly 120s, young is 20s.
	removed := s.Store("new:mkworld12p", record("New", 3))

	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, s.Len())
	_, ok := s.Lookup("young:mkworld24p")
	assert.True(t, ok)
	_, ok = s.Lookup("new:mkworld12p")
	assert.True(t, ok)
}

func TestStoreKeepsEntryJustUnderEviction(t *testing.T) {
	s, clock := newTestStore()

	s.Store("a:mkworld24p", record("A", 1))
	clock.Advance(119 * time.Second)
	removed := s.Store("b:mkworld24p", record("B", 2))

	assert.Zero(t, removed)
	assert.Equal(t, 2, s.Len())
}

func TestStoreOverwritesSameKey(t *testing.T) {
	s, clock := newTestStore()

	s.Store("foo:mkworld24p", record("Foo", 1))
	clock.Advance(90 * time.Second)
	s.Store("foo:mkworld24p", record("Foo", 2))

	got, ok := s.Lookup("foo:mkworld24p")
	require.True(t, ok)
	assert.Equal(t, 2.0, *got.Mmr)
	assert.Equal(t, 1, s.Len())
}

func TestStoreUpdatesMetrics(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := metrics.Nop()
	s := New(clock, time.Minute, 2*time.Minute, m)

	s.Store("a:mkworld24p", record("A", 1))
	s.Store("b:mkworld24p", record("B", 1))
	clock.Advance(3 * time.Minute)
	s.Store("c:mkworld24p", record("C", 1))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEntries))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheEvictions))
}

func TestConcurrentLookupAndStore(t *testing.T) {
	s, _ := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		key := fmt.Sprintf("p%d:mkworld24p", i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Store(key, record(key, float64(j)))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got, ok := s.Lookup(key); ok {
					assert.Equal(t, key, got.Name)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, s.Len())
}

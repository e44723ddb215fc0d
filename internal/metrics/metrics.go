package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "mkworld"

type Metrics struct {
	CacheLookups     *prometheus.CounterVec
	CacheEntries     prometheus.Gauge
	CacheEvictions   prometheus.Counter
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	FlightsShared    prometheus.Counter
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Player cache lookups by result.",
		}, []string{"result"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Entries physically held by the player cache.",
		}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Entries removed by the write sweep.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Lounge API requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Lounge API request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		FlightsShared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_flights_shared_total",
			Help:      "Cache misses that joined an in-flight upstream fetch.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CacheLookups,
			m.CacheEntries,
			m.CacheEvictions,
			m.UpstreamRequests,
			m.UpstreamDuration,
			m.FlightsShared,
		)
	}
	return m
}

// Nop returns unregistered collectors for tests and tools.
func Nop() *Metrics {
	return New(nil)
}

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks reads served from a completed entry
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_cache_hits_total",
			Help: "Total number of memoized SWAPI responses served from cache",
		},
	)

	// CacheMisses tracks reads that had to go to the transport
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_cache_misses_total",
			Help: "Total number of SWAPI cache misses",
		},
	)

	// CacheJoins tracks callers that attached to an in-flight fetch
	CacheJoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapi_cache_inflight_joins_total",
			Help: "Total number of callers that joined an in-flight SWAPI fetch",
		},
	)

	// CacheEntries tracks the number of completed entries across fetchers
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swapi_cache_entries",
			Help: "Current number of memoized SWAPI responses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "fetch", "panic", "type_mismatch"
	)
)

// Package metrics provides centralized Prometheus metrics registry for the SWAPI engine.
// All metrics are defined in their respective packages (client, cache, pagination,
// resolver) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics,
// and the HTTP handler that exposes them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the engine.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves every registered metric in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - swapi_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - swapi_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - swapi_errors_total{class} (Counter): Errors by class (client, server, network, decode)
//
// Cache Metrics (pkg/cache):
//   - swapi_cache_hits_total (Counter): Reads served from a completed entry
//   - swapi_cache_misses_total (Counter): Reads that went to the transport
//   - swapi_cache_inflight_joins_total (Counter): Reads that joined an in-flight fetch
//   - swapi_cache_entries (Gauge): Completed entries
//   - swapi_cache_errors_total{operation} (Counter): Failed fetches and type mismatches
//
// Pagination Metrics (pkg/pagination):
//   - swapi_pages_walked_total{resource} (Counter): Pages consumed by walks
//   - swapi_items_emitted_total{resource} (Counter): Items that passed the walk predicate
//
// Resolver Metrics (pkg/resolver):
//   - swapi_resolutions_total{strategy, outcome} (Counter): Link resolutions by outcome
//   - swapi_resolve_batch_duration_seconds{strategy} (Histogram): Time to resolve one item's links
//   - swapi_resolutions_in_flight (Gauge): Link resolutions currently running
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(swapi_cache_hits_total[5m])) /
//   (sum(rate(swapi_cache_hits_total[5m])) + sum(rate(swapi_cache_misses_total[5m])))
//
//   # Single-flight savings
//   rate(swapi_cache_inflight_joins_total[5m])
//
//   # Request Error Rate
//   rate(swapi_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(swapi_request_duration_seconds_bucket[5m]))
//
//   # Failed resolutions per strategy
//   sum by (strategy) (rate(swapi_resolutions_total{outcome="failed"}[5m]))

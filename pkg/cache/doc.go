// Package cache provides the memoizing fetcher that sits between the SWAPI
// resource layer and the HTTP transport.
//
// The fetcher implements a read-through cache with single-flight semantics:
//
// - Keys are (relative path, sorted query params); absolute and relative
// forms of the same resource collapse to one key
// - Completed entries live as long as the Fetcher (no expiry, no eviction)
// - Concurrent callers for a key that is still being fetched join the
// in-flight request instead of issuing their own
// - Failed fetches are not memoized; the next caller tries again
// - Values are stored untyped and read back through the generic Fetch,
// which reports a TypeMismatchError instead of panicking
//
// # Basic Usage
//
//	transport, err := client.New(client.DefaultConfig(client.DefaultBaseURL))
//	if err != nil {
//		return err
//	}
//
//	fetcher := cache.NewFetcher(transport)
//
//	// First call goes to the network, the second is served from memory
//	luke, err := cache.Fetch[swapi.Person](ctx, fetcher, "/people/1/", nil)
//	luke, err = cache.Fetch[swapi.Person](ctx, fetcher, "https://swapi.dev/api/people/1/", nil)
//
// # Metrics
//
// The fetcher exports Prometheus metrics:
//
//   - swapi_cache_hits_total - reads served from a completed entry
//   - swapi_cache_misses_total - reads that went to the transport
//   - swapi_cache_inflight_joins_total - reads that joined an in-flight fetch
//   - swapi_cache_entries - completed entries
//   - swapi_cache_errors_total{operation} - failed fetches and type mismatches
package cache

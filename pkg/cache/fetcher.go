package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/Sternrassler/starship-pilots/pkg/logging"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// ErrTypeMismatch matches every *TypeMismatchError via errors.Is.
var ErrTypeMismatch = errors.New("cache type mismatch")

// TypeMismatchError is returned when a key is read with a result type
// different from the one it was first fetched with.
type TypeMismatchError struct {
	Key       string
	Cached    string
	Requested string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cache entry %s holds %s, requested %s", e.Key, e.Cached, e.Requested)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// Getter is the transport contract the Fetcher decorates.
// *client.Client implements it.
type Getter interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	RelativePath(path string) string
}

// Stats is a point-in-time snapshot of fetcher counters.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
	Joins   int64
}

// Fetcher memoizes transport results by Key for its whole lifetime.
// Concurrent requests for the same key share a single transport call.
type Fetcher struct {
	transport Getter
	entries   *xsync.MapOf[string, *entry]
	logger    zerolog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	joins  atomic.Int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a memoizing fetcher in front of transport.
func NewFetcher(transport Getter, opts ...Option) *Fetcher {
	if transport == nil {
		panic("transport cannot be nil")
	}

	f := &Fetcher{
		transport: transport,
		entries:   xsync.NewMapOf[string, *entry](),
		logger:    logging.NewLogger("swapi-cache"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Key returns the normalized key for path and params.
func (f *Fetcher) Key(path string, params url.Values) Key {
	return NewKey(f.transport.RelativePath(path), params)
}

// Len returns the number of entries, in flight or completed.
func (f *Fetcher) Len() int {
	return f.entries.Size()
}

// Stats returns the fetcher's counters.
func (f *Fetcher) Stats() Stats {
	return Stats{
		Entries: f.entries.Size(),
		Hits:    f.hits.Load(),
		Misses:  f.misses.Load(),
		Joins:   f.joins.Load(),
	}
}

// Fetch returns the value for (path, params) decoded as T, going to the
// transport at most once per key. A key first fetched with a different
// type yields *TypeMismatchError. Failed fetches are not memoized.
func Fetch[T any](ctx context.Context, f *Fetcher, path string, params url.Values) (T, error) {
	var zero T

	key := f.Key(path, params)
	value, err := f.load(ctx, key, func(ctx context.Context) (any, error) {
		var out T
		if err := f.transport.Get(ctx, key.Path, key.Params, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		CacheErrors.WithLabelValues("type_mismatch").Inc()
		return zero, &TypeMismatchError{
			Key:       key.String(),
			Cached:    fmt.Sprintf("%T", value),
			Requested: reflect.TypeFor[T]().String(),
		}
	}
	return typed, nil
}

// load implements the single-flight read-through. LoadOrCompute is the
// atomic check-and-insert: exactly one caller per key creates the entry
// and starts the fetch, everyone else waits on it. The fetch runs detached
// from the creating caller's cancellation, so the creator giving up does
// not fail the callers joined on the same entry.
func (f *Fetcher) load(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	cacheKey := key.String()

	e, loaded := f.entries.LoadOrCompute(cacheKey, newEntry)
	if loaded {
		if e.ready() {
			f.hits.Add(1)
			CacheHits.Inc()
			f.logger.Debug().
				Str("key", cacheKey).
				Dur("age", time.Since(e.createdAt)).
				Msg("Cache hit")
			return e.value, e.err
		}

		f.joins.Add(1)
		CacheJoins.Inc()
		f.logger.Debug().Str("key", cacheKey).Msg("Joining in-flight fetch")
		return e.wait(ctx)
	}

	f.misses.Add(1)
	CacheMisses.Inc()
	f.logger.Debug().Str("key", cacheKey).Msg("Cache miss")

	go f.fill(context.WithoutCancel(ctx), cacheKey, e, fetch)
	return e.wait(ctx)
}

// fill runs fetch for a freshly inserted entry and completes it. Failed
// entries are removed before completion so no later reader observes them.
func (f *Fetcher) fill(ctx context.Context, cacheKey string, e *entry, fetch func(context.Context) (any, error)) {
	defer func() {
		if r := recover(); r != nil {
			f.entries.Delete(cacheKey)
			e.complete(nil, fmt.Errorf("fetch %s: panic: %v", cacheKey, r))
			CacheErrors.WithLabelValues("panic").Inc()
			f.logger.Error().Interface("panic", r).Str("key", cacheKey).Msg("Fetch panicked, not memoized")
		}
	}()

	value, err := fetch(ctx)
	if err != nil {
		f.entries.Delete(cacheKey)
		e.complete(nil, err)
		CacheErrors.WithLabelValues("fetch").Inc()
		f.logger.Debug().Err(err).Str("key", cacheKey).Msg("Fetch failed, not memoized")
		return
	}

	e.complete(value, nil)
	CacheEntries.Inc()
}

package pagination

import (
	"context"
	"iter"
	"net/url"
	"strings"

	"github.com/Sternrassler/starship-pilots/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	pagesWalked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_pages_walked_total",
			Help: "Total number of SWAPI result pages consumed by paginated walks",
		},
		[]string{"resource"},
	)

	itemsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_items_emitted_total",
			Help: "Total number of items that passed the walk predicate",
		},
		[]string{"resource"},
	)
)

// Page is one slice of a paginated SWAPI collection.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// PageFunc fetches the page at path. path is either the start path or a
// Next link taken verbatim from the previous page.
type PageFunc[T any] func(ctx context.Context, path string) (Page[T], error)

// Paginate walks a collection starting at start and yields every item for
// which predicate holds (all items when predicate is nil), in page order
// then within-page order.
//
// The walk is lazy: a page is fetched only once the previous page has been
// consumed, and breaking out of the range loop stops fetching. Every page is
// walked even after the predicate stops matching. A page error is yielded
// once as (zero, err) and ends the sequence. Each range over the returned
// sequence starts a fresh walk.
func Paginate[T any](ctx context.Context, fetch PageFunc[T], start string, predicate func(T) bool) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		resource := resourceLabel(start)
		current := start
		pages, emitted := 0, 0

		for {
			page, err := fetch(ctx, current)
			if err != nil {
				log.Debug().
					Err(err).
					Str("resource", resource).
					Str("page", current).
					Msg("Page fetch failed, ending walk")
				var zero T
				yield(zero, err)
				return
			}

			pages++
			pagesWalked.WithLabelValues(resource).Inc()
			log.Debug().
				Str("resource", resource).
				Str("page", current).
				Int("items", len(page.Results)).
				Msg("Page fetched")

			for _, item := range page.Results {
				if predicate != nil && !predicate(item) {
					continue
				}
				emitted++
				itemsEmitted.WithLabelValues(resource).Inc()
				if !yield(item, nil) {
					return
				}
			}

			if !page.HasNext() {
				log.Debug().
					Str("resource", resource).
					Int("pages", pages).
					Int("items", emitted).
					Msg("Walk complete")
				return
			}
			current = *page.Next
		}
	}
}

// Walk paginates through the memoizing fetcher, so pages already seen by f
// are served from memory.
func Walk[T any](ctx context.Context, f *cache.Fetcher, start string, predicate func(T) bool) iter.Seq2[T, error] {
	fetch := func(ctx context.Context, path string) (Page[T], error) {
		return cache.Fetch[Page[T]](ctx, f, path, nil)
	}
	return Paginate(ctx, fetch, start, predicate)
}

// Collect drains seq into a slice. It stops at the first error and returns
// it with no items.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// resourceLabel reduces a collection path or link to its resource name for
// metric labels ("https://swapi.dev/api/starships/?page=2" -> "starships").
func resourceLabel(path string) string {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	label := segments[len(segments)-1]
	if label == "" {
		return "unknown"
	}
	return label
}

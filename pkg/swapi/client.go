package swapi

import (
	"context"
	"fmt"
	"iter"

	"github.com/Sternrassler/starship-pilots/pkg/cache"
	"github.com/Sternrassler/starship-pilots/pkg/client"
	"github.com/Sternrassler/starship-pilots/pkg/logging"
	"github.com/Sternrassler/starship-pilots/pkg/pagination"
	"github.com/Sternrassler/starship-pilots/pkg/resolver"
	"github.com/rs/zerolog"
)

// Client is the caller-facing SWAPI API. Every request goes through one
// memoizing fetcher, so a Client gets faster the longer it is used.
// A Client is safe for concurrent use.
type Client struct {
	fetcher *cache.Fetcher
	logger  zerolog.Logger
}

// New creates a Client with its own transport and cache.
func New(cfg client.Config) (*Client, error) {
	transport, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}
	return NewWithFetcher(cache.NewFetcher(transport)), nil
}

// NewWithFetcher creates a Client on top of an existing fetcher. Clients
// sharing a fetcher share its cache.
func NewWithFetcher(fetcher *cache.Fetcher) *Client {
	if fetcher == nil {
		panic("fetcher cannot be nil")
	}
	return &Client{
		fetcher: fetcher,
		logger:  logging.NewLogger("swapi"),
	}
}

// Fetcher returns the underlying memoizing fetcher.
func (c *Client) Fetcher() *cache.Fetcher {
	return c.fetcher
}

// List walks the collection of the given kind ("people", "starships")
// and yields the items matching predicate (all when nil).
func List[T any](ctx context.Context, c *Client, kind string, predicate func(T) bool) iter.Seq2[T, error] {
	return pagination.Walk(ctx, c.fetcher, "/"+kind+"/", predicate)
}

// Starships walks every starship page.
func (c *Client) Starships(ctx context.Context, predicate func(Starship) bool) iter.Seq2[Starship, error] {
	return List(ctx, c, ResourceStarships, predicate)
}

// People walks every people page.
func (c *Client) People(ctx context.Context, predicate func(Person) bool) iter.Seq2[Person, error] {
	return List(ctx, c, ResourcePeople, predicate)
}

// Get fetches the single resource at url as T.
func Get[T any](ctx context.Context, c *Client, url string) (T, error) {
	return cache.Fetch[T](ctx, c.fetcher, url, nil)
}

// resolveFunc adapts Get to the resolver.
func resolveFunc[T any](c *Client) resolver.ResolveFunc[T] {
	return func(ctx context.Context, link string) (T, error) {
		return Get[T](ctx, c, link)
	}
}

// Resolve fetches every linked reference in urls and returns the resources
// in the same order. It returns only after every link has been resolved or
// has failed.
func Resolve[T any](ctx context.Context, c *Client, urls []string, strategy resolver.Strategy) ([]T, error) {
	return resolver.ResolveAll(ctx, urls, resolveFunc[T](c), strategy)
}

// ResolveAsync is Resolve in the background.
func ResolveAsync[T any](ctx context.Context, c *Client, urls []string, strategy resolver.Strategy) *resolver.Task[[]T] {
	return resolver.ResolveAllAsync(ctx, urls, resolveFunc[T](c), strategy)
}

// Pilots resolves the pilots of ship in the order SWAPI lists them.
func (c *Client) Pilots(ctx context.Context, ship Starship, strategy resolver.Strategy) ([]Person, error) {
	pilots, err := Resolve[Person](ctx, c, ship.Pilots, strategy)
	if err != nil {
		return nil, fmt.Errorf("resolve pilots of %s: %w", ship.Name, err)
	}
	c.logger.Debug().
		Str("starship", ship.Name).
		Int("links", len(ship.Pilots)).
		Msg("Pilots resolved")
	return pilots, nil
}

// Person fetches the person at url.
func (c *Client) Person(ctx context.Context, url string) (Person, error) {
	return Get[Person](ctx, c, url)
}

// PersonAsync fetches the person at url in the background.
func (c *Client) PersonAsync(ctx context.Context, url string) *resolver.Task[Person] {
	return resolver.Start(ctx, url, resolveFunc[Person](c))
}

// Starship fetches the starship at url.
func (c *Client) Starship(ctx context.Context, url string) (Starship, error) {
	return Get[Starship](ctx, c, url)
}

// StarshipAsync fetches the starship at url in the background.
func (c *Client) StarshipAsync(ctx context.Context, url string) *resolver.Task[Starship] {
	return resolver.Start(ctx, url, resolveFunc[Starship](c))
}

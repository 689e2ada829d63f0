package resolver

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Strategy names accepted by ParseStrategy.
const (
	StrategySequential = "sequential"
	StrategyConcurrent = "concurrent"
	StrategyBounded    = "bounded"
)

// DefaultWorkers is the Bounded pool size used when none is given.
const DefaultWorkers = 10

// Strategy decides how many resolutions run at once. Run must call fn
// exactly once for every index in [0, n) and return only after all calls
// have returned.
type Strategy interface {
	Name() string
	Run(n int, fn func(i int))
}

// Sequential resolves one link at a time, in order.
type Sequential struct{}

// Name implements Strategy.
func (Sequential) Name() string { return StrategySequential }

// Run implements Strategy.
func (Sequential) Run(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}

// Concurrent launches every link at once (fan-out width = number of links).
type Concurrent struct{}

// Name implements Strategy.
func (Concurrent) Name() string { return StrategyConcurrent }

// Run implements Strategy.
func (Concurrent) Run(n int, fn func(i int)) {
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// Bounded runs at most Workers resolutions at once.
type Bounded struct {
	Workers int
}

// Name implements Strategy.
func (b Bounded) Name() string { return StrategyBounded }

// Run implements Strategy.
func (b Bounded) Run(n int, fn func(i int)) {
	workers := b.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// ParseStrategy returns the strategy called name. workers only applies to
// "bounded" and must be positive there.
func ParseStrategy(name string, workers int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategySequential:
		return Sequential{}, nil
	case StrategyConcurrent, "":
		return Concurrent{}, nil
	case StrategyBounded:
		if workers <= 0 {
			return nil, fmt.Errorf("bounded strategy needs a positive worker count (got %d)", workers)
		}
		return Bounded{Workers: workers}, nil
	default:
		return nil, fmt.Errorf("unknown resolution strategy %q (want %s, %s or %s)",
			name, StrategySequential, StrategyConcurrent, StrategyBounded)
	}
}

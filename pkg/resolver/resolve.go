package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_resolutions_total",
			Help: "Total number of linked references resolved",
		},
		[]string{"strategy", "outcome"}, // outcome: "completed", "failed"
	)

	batchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapi_resolve_batch_duration_seconds",
			Help:    "Time to resolve every link of one item",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	inFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swapi_resolutions_in_flight",
			Help: "Number of link resolutions currently running",
		},
	)
)

// LinkError records which link of a batch failed.
type LinkError struct {
	Index int
	Link  string
	Err   error
}

// Error implements the error interface.
func (e *LinkError) Error() string {
	return fmt.Sprintf("resolve link %d (%s): %v", e.Index, e.Link, e.Err)
}

// Unwrap returns the underlying error.
func (e *LinkError) Unwrap() error {
	return e.Err
}

// ResolveAll resolves every link with fn under strategy and returns the
// results in link order, whatever order they completed in. A nil strategy
// means Concurrent.
//
// The join is all-or-nothing: every resolution runs to a terminal state
// before ResolveAll returns. If any failed, the results are discarded and
// the error joins one *LinkError per failure, in link order.
func ResolveAll[T any](ctx context.Context, links []string, fn ResolveFunc[T], strategy Strategy) ([]T, error) {
	if strategy == nil {
		strategy = Concurrent{}
	}
	if len(links) == 0 {
		return []T{}, nil
	}

	start := time.Now()
	name := strategy.Name()

	tasks := make([]*Task[T], len(links))
	for i, link := range links {
		tasks[i] = newTask[T](link)
	}

	strategy.Run(len(tasks), func(i int) {
		inFlight.Inc()
		tasks[i].run(ctx, fn)
		inFlight.Dec()
	})

	results := make([]T, len(tasks))
	var failures []error
	for i, task := range tasks {
		value, err := task.result()
		if err != nil {
			resolutionsTotal.WithLabelValues(name, "failed").Inc()
			log.Warn().
				Err(err).
				Str("strategy", name).
				Str("link", task.Link()).
				Msg("Link resolution failed")
			failures = append(failures, &LinkError{Index: i, Link: task.Link(), Err: err})
			continue
		}
		resolutionsTotal.WithLabelValues(name, "completed").Inc()
		results[i] = value
	}

	duration := time.Since(start)
	batchDuration.WithLabelValues(name).Observe(duration.Seconds())
	log.Debug().
		Str("strategy", name).
		Int("links", len(links)).
		Int("failed", len(failures)).
		Dur("duration", duration).
		Msg("Links resolved")

	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	return results, nil
}

// ResolveAllAsync starts ResolveAll in the background and returns a task
// for the whole batch.
func ResolveAllAsync[T any](ctx context.Context, links []string, fn ResolveFunc[T], strategy Strategy) *Task[[]T] {
	batch := fmt.Sprintf("batch of %d links", len(links))
	return Start(ctx, batch, func(ctx context.Context, _ string) ([]T, error) {
		return ResolveAll(ctx, links, fn, strategy)
	})
}

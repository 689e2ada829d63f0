package cache

import (
	"context"
	"time"
)

// entry is one memoized request. It starts in flight and is completed
// exactly once; done is closed on completion and value/err are immutable
// afterwards.
type entry struct {
	done      chan struct{}
	value     any
	err       error
	createdAt time.Time
}

func newEntry() *entry {
	return &entry{
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}
}

// complete publishes the outcome to every waiter.
func (e *entry) complete(value any, err error) {
	e.value = value
	e.err = err
	close(e.done)
}

// ready reports whether the entry has been completed.
func (e *entry) ready() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// wait blocks until the entry completes or ctx is done. Giving up on ctx
// does not affect the in-flight fetch.
func (e *entry) wait(ctx context.Context) (any, error) {
	select {
	case <-e.done:
		return e.value, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

package resolver

import (
	"context"
	"sync/atomic"
)

// State is the lifecycle position of a Task.
type State int32

const (
	// Pending tasks have been created but not started.
	Pending State = iota
	// Running tasks are resolving their link.
	Running
	// Completed tasks hold a value.
	Completed
	// Failed tasks hold an error.
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}

// ResolveFunc resolves one linked reference.
type ResolveFunc[T any] func(ctx context.Context, link string) (T, error)

// Task is a single resolution moving Pending -> Running -> Completed|Failed.
// There are no retries, and a running task is never cancelled by the
// resolver; only fn can observe ctx.
type Task[T any] struct {
	link  string
	state atomic.Int32
	done  chan struct{}
	value T
	err   error
}

func newTask[T any](link string) *Task[T] {
	return &Task[T]{
		link: link,
		done: make(chan struct{}),
	}
}

// Start launches the resolution of link in its own goroutine and returns
// immediately.
func Start[T any](ctx context.Context, link string, fn ResolveFunc[T]) *Task[T] {
	t := newTask[T](link)
	go t.run(ctx, fn)
	return t
}

func (t *Task[T]) run(ctx context.Context, fn ResolveFunc[T]) {
	t.state.Store(int32(Running))
	value, err := fn(ctx, t.link)

	t.value, t.err = value, err
	if err != nil {
		t.state.Store(int32(Failed))
	} else {
		t.state.Store(int32(Completed))
	}
	close(t.done)
}

// Link returns the reference this task resolves.
func (t *Task[T]) Link() string {
	return t.link
}

// State returns the current state.
func (t *Task[T]) State() State {
	return State(t.state.Load())
}

// Done is closed once the task reaches a terminal state.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its outcome. If ctx ends
// first, Wait returns ctx.Err() and the task keeps running.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// result returns the outcome of a finished task.
func (t *Task[T]) result() (T, error) {
	<-t.done
	return t.value, t.err
}

package resolver

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		want     string
		terminal bool
	}{
		{Pending, "pending", false},
		{Running, "running", false},
		{Completed, "completed", true},
		{Failed, "failed", true},
		{State(42), "unknown", false},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
		if got := tt.state.Terminal(); got != tt.terminal {
			t.Errorf("State(%d).Terminal() = %v, want %v", tt.state, got, tt.terminal)
		}
	}
}

func TestTask_Lifecycle(t *testing.T) {
	task := newTask[string]("/people/1/")
	if task.State() != Pending {
		t.Fatalf("new task State() = %s, want pending", task.State())
	}

	started := make(chan struct{})
	release := make(chan struct{})
	go task.run(context.Background(), func(ctx context.Context, link string) (string, error) {
		close(started)
		<-release
		return "Luke Skywalker", nil
	})

	<-started
	if task.State() != Running {
		t.Errorf("State() = %s while resolving, want running", task.State())
	}

	close(release)
	got, err := task.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got != "Luke Skywalker" {
		t.Errorf("Wait() = %q", got)
	}
	if task.State() != Completed {
		t.Errorf("State() = %s, want completed", task.State())
	}
	if task.Link() != "/people/1/" {
		t.Errorf("Link() = %q", task.Link())
	}
}

func TestStart_Failure(t *testing.T) {
	boom := errors.New("boom")
	task := Start(context.Background(), "/people/1/", func(ctx context.Context, link string) (int, error) {
		return 0, boom
	})

	<-task.Done()
	if task.State() != Failed {
		t.Errorf("State() = %s, want failed", task.State())
	}
	if _, err := task.Wait(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Wait() error = %v, want %v", err, boom)
	}
}

func TestTask_WaitContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	task := Start(context.Background(), "/people/1/", func(ctx context.Context, link string) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
	if task.State().Terminal() {
		t.Errorf("State() = %s, task should still be running", task.State())
	}
}

package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingLogger captures warn calls for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...any) {}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

func TestSpawn_RemovedOnCompletion(t *testing.T) {
	s := New()
	done := make(chan struct{})

	id := s.Spawn(context.Background(), "quick", func(context.Context) error {
		close(done)
		return nil
	})
	if id == "" {
		t.Fatal("Spawn() returned empty id")
	}

	<-done
	s.Wait()
	if got := s.Count(); got != 0 {
		t.Errorf("Count() = %d after completion, want 0", got)
	}
}

func TestSpawn_FailureIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	s := New()
	s.SetLogger(logger)

	s.Spawn(context.Background(), "failing", func(context.Context) error {
		return errors.New("boom")
	})
	s.Wait()

	if logger.warnCount() != 1 {
		t.Errorf("warn count = %d, want 1", logger.warnCount())
	}
}

func TestSpawn_CancellationIsNotLogged(t *testing.T) {
	logger := &recordingLogger{}
	s := New()
	s.SetLogger(logger)

	started := make(chan struct{})
	s.Spawn(context.Background(), "cancellable", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	s.CancelAll()
	s.Wait()

	if logger.warnCount() != 0 {
		t.Errorf("warn count = %d, want 0 (cancellation is not a failure)", logger.warnCount())
	}
}

func TestCancelAll_StopsAllTasks(t *testing.T) {
	s := New()

	const n = 5
	var started sync.WaitGroup
	started.Add(n)
	for i := 0; i < n; i++ {
		s.Spawn(context.Background(), "worker", func(ctx context.Context) error {
			started.Done()
			<-ctx.Done()
			return ctx.Err()
		})
	}
	started.Wait()

	if got := s.Count(); got != n {
		t.Fatalf("Count() = %d, want %d", got, n)
	}

	s.CancelAll()

	waited := make(chan struct{})
	go func() {
		s.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not stop after CancelAll")
	}

	if got := s.Count(); got != 0 {
		t.Errorf("Count() = %d after CancelAll, want 0", got)
	}
}

func TestSpawn_ParentContextCancellation(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	s.Spawn(ctx, "scoped", func(taskCtx context.Context) error {
		close(started)
		<-taskCtx.Done()
		return taskCtx.Err()
	})

	<-started
	cancel()
	s.Wait()

	if got := s.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

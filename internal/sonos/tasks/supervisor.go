package tasks

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Supervisor.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Supervisor spawns and tracks background goroutines.
//
// All public methods are thread-safe.
type Supervisor struct {
	logger Logger

	mu    sync.Mutex
	tasks map[string]context.CancelFunc
	wg    sync.WaitGroup
}

// New creates a supervisor.
func New() *Supervisor {
	return &Supervisor{
		logger: noopLogger{},
		tasks:  make(map[string]context.CancelFunc),
	}
}

// SetLogger sets the logger for the supervisor.
func (s *Supervisor) SetLogger(logger Logger) {
	s.logger = logger
}

// Spawn runs fn in a tracked goroutine and returns its task id.
//
// The goroutine's context is cancelled by CancelAll. When fn returns, the
// task is removed from the live set; a failure other than cancellation is
// logged. Failures never propagate to other tasks or callers.
func (s *Supervisor) Spawn(ctx context.Context, name string, fn func(ctx context.Context) error) string {
	taskCtx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()

	s.mu.Lock()
	s.tasks[id] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		err := fn(taskCtx)

		s.mu.Lock()
		delete(s.tasks, id)
		s.mu.Unlock()

		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("task failed", "task", name, "id", id, "error", err)
		}
	}()

	return id
}

// CancelAll requests cancellation of every tracked task.
//
// Cancellation is cooperative; an in-flight task observes it at its next
// suspension point. CancelAll returns immediately, use Wait to block until
// the tasks have finished.
func (s *Supervisor) CancelAll() {
	s.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.tasks))
	for _, cancel := range s.tasks {
		cancels = append(cancels, cancel)
	}
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if len(cancels) > 0 {
		s.logger.Debug("cancelled tasks", "count", len(cancels))
	}
}

// Wait blocks until every spawned task has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Count returns the number of currently live tasks.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

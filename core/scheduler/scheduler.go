package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrAlreadyScheduled is returned when a job with the same name is registered.
	ErrAlreadyScheduled = errors.New("job is already scheduled")
	// ErrInvalidInterval is returned for non-positive intervals.
	ErrInvalidInterval = errors.New("interval must be positive")
)

// Func is a recurring callback.
type Func func(ctx context.Context) error

type job struct {
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// Scheduler runs named callbacks at a fixed interval. A job never overlaps itself:
// ticks that fire while the callback is still running are dropped.
type Scheduler struct {
	mu     sync.Mutex
	ctx    context.Context
	jobs   map[string]*job
	logger *zap.Logger
}

// New creates a scheduler whose jobs stop when ctx is cancelled.
func New(ctx context.Context, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		ctx:    ctx,
		jobs:   make(map[string]*job),
		logger: logger,
	}
}

// Register schedules fn every interval. The first run happens one interval after registration.
func (s *Scheduler) Register(name string, interval time.Duration, fn Func) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyScheduled, name)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	j := &job{interval: interval, cancel: cancel, done: make(chan struct{})}
	s.jobs[name] = j

	go s.loop(ctx, name, j, fn)

	s.logger.Info("Job scheduled", zap.String("job", name), zap.Duration("interval", interval))
	return nil
}

// IsScheduled reports whether a job with that name is registered.
func (s *Scheduler) IsScheduled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[name]
	return ok
}

// Clear stops and removes a job, waiting for a running callback to return.
// It reports whether the job existed.
func (s *Scheduler) Clear(name string) bool {
	s.mu.Lock()
	j, ok := s.jobs[name]
	delete(s.jobs, name)
	s.mu.Unlock()

	if !ok {
		return false
	}
	j.cancel()
	<-j.done
	s.logger.Info("Job cleared", zap.String("job", name))
	return true
}

// Stop clears every job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	s.mu.Unlock()

	for _, name := range names {
		s.Clear(name)
	}
}

func (s *Scheduler) loop(ctx context.Context, name string, j *job, fn Func) {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := fn(ctx); err != nil {
				s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
				continue
			}
			s.logger.Debug("Scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
		}
	}
}

package lock

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrRunInProgress is returned when another run holds the lock for the same key.
var ErrRunInProgress = errors.New("a run with the same key is already in progress")

// Locker acquires a named lock. Acquire returns ErrRunInProgress when the lock is held
// elsewhere; the returned release func must be called once the guarded work is done.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// Guard serializes runs sharing a key. Callers in the same process join the run
// already in flight and receive its result; across processes the optional Locker
// rejects the second run with ErrRunInProgress.
type Guard struct {
	locker Locker
	logger *zap.Logger
	group  singleflight.Group
}

// NewGuard creates a guard. locker may be nil for in-process protection only.
func NewGuard(locker Locker, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{locker: locker, logger: logger}
}

// Do runs fn under key. shared is true when the result came from a run started by
// another caller.
func (g *Guard) Do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (v any, shared bool, err error) {
	v, err, shared = g.group.Do(key, func() (any, error) {
		if g.locker == nil {
			return fn(ctx)
		}

		release, err := g.locker.Acquire(ctx, key)
		if err != nil {
			return nil, err
		}
		defer func() {
			// The caller's context may already be cancelled; release must still go out.
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				g.logger.Warn("Failed to release run lock", zap.String("key", key), zap.Error(rerr))
			}
		}()

		return fn(ctx)
	})
	return v, shared, err
}

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stripe-sync/core/lock"
	"stripe-sync/core/platform"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reporter receives every finished bulk or recent pass.
type Reporter interface {
	Report(ctx context.Context, summary *RunSummary)
}

// Option configures an Engine.
type Option func(*Engine)

// WithGuard serializes passes of the same trigger through guard.
func WithGuard(guard *lock.Guard) Option {
	return func(e *Engine) { e.guard = guard }
}

// WithReporter registers a reporter for finished passes.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine applies the reconciliation policy for every trigger. It never creates
// provider customers; it only binds users to existing ones.
type Engine struct {
	directory Directory
	mappings  MappingStore
	resolver  Resolver
	cfg       Config
	logger    *zap.Logger

	guard    *lock.Guard
	reporter Reporter
	now      func() time.Time
}

// NewEngine creates a reconciliation engine.
func NewEngine(directory Directory, mappings MappingStore, resolver Resolver, cfg Config, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		directory: directory,
		mappings:  mappings,
		resolver:  resolver,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SyncAll visits every user and maps those without a mapping.
// Users that already have a mapping cost no provider call.
func (e *Engine) SyncAll(ctx context.Context) (*RunSummary, error) {
	return e.guarded(ctx, TriggerSyncAll, func(ctx context.Context, afterID uint64, limit int) ([]platform.User, error) {
		return e.directory.List(ctx, afterID, limit)
	})
}

// SyncRecent is SyncAll restricted to users registered within the recent window.
// RunSummary.Mapped is the number of newly mapped users.
func (e *Engine) SyncRecent(ctx context.Context) (*RunSummary, error) {
	since := e.now().UTC().Add(-e.cfg.RecentWindow())
	return e.guarded(ctx, TriggerSyncRecent, func(ctx context.Context, afterID uint64, limit int) ([]platform.User, error) {
		return e.directory.ListRegisteredSince(ctx, since, afterID, limit)
	})
}

type pageFunc func(ctx context.Context, afterID uint64, limit int) ([]platform.User, error)

func (e *Engine) guarded(ctx context.Context, trigger Trigger, page pageFunc) (*RunSummary, error) {
	if e.guard == nil {
		return e.pass(ctx, trigger, page)
	}

	v, shared, err := e.guard.Do(ctx, string(trigger), func(ctx context.Context) (any, error) {
		return e.pass(ctx, trigger, page)
	})
	if shared {
		e.logger.Info("Joined a pass already in progress", zap.String("trigger", string(trigger)))
	}
	summary, _ := v.(*RunSummary)
	return summary, err
}

func (e *Engine) pass(ctx context.Context, trigger Trigger, page pageFunc) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: e.now().UTC(),
		Outcomes:  []Outcome{},
	}
	log := e.logger.With(zap.String("run_id", summary.RunID), zap.String("trigger", string(trigger)))
	log.Info("Sync pass started")

	err := e.walk(ctx, summary, page, log)
	summary.FinishedAt = e.now().UTC()

	fields := []zap.Field{
		zap.Int("scanned", summary.Scanned),
		zap.Int("skipped", summary.Skipped),
		zap.Int("mapped", summary.Mapped),
		zap.Int("unmatched", summary.Unmatched),
		zap.Int("failed", summary.Failed),
		zap.Duration("took", summary.Duration()),
	}
	if err != nil {
		log.Error("Sync pass aborted", append(fields, zap.Error(err))...)
	} else {
		log.Info("Sync pass finished", fields...)
	}

	if e.reporter != nil {
		e.reporter.Report(context.WithoutCancel(ctx), summary)
	}
	return summary, err
}

func (e *Engine) walk(ctx context.Context, summary *RunSummary, page pageFunc, log *zap.Logger) error {
	limit := e.cfg.batchSize()
	var afterID uint64

	for {
		users, err := page(ctx, afterID, limit)
		if err != nil {
			return fmt.Errorf("failed to list users after %d: %w", afterID, err)
		}

		for _, u := range users {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary.record(e.reconcileUncached(ctx, u, log))
			afterID = u.ID
		}

		if len(users) < limit {
			return nil
		}
	}
}

// reconcileUncached maps a user only when no mapping exists yet.
func (e *Engine) reconcileUncached(ctx context.Context, u platform.User, log *zap.Logger) Outcome {
	out := Outcome{UserID: u.ID, Email: u.Email}

	existing, ok, err := e.mappings.Get(ctx, u.ID)
	if err != nil {
		log.Warn("Failed to read mapping", zap.Uint64("user_id", u.ID), zap.Error(err))
		out.Action, out.Error = ActionFailed, err.Error()
		return out
	}
	if ok {
		out.Action, out.CustomerID = ActionSkipped, existing
		return out
	}

	return e.resolveAndStore(ctx, out, log)
}

func (e *Engine) resolveAndStore(ctx context.Context, out Outcome, log *zap.Logger) Outcome {
	customerID, ok := e.resolver.Resolve(ctx, out.Email)
	if !ok {
		out.Action = ActionUnmatched
		return out
	}

	if err := e.mappings.Set(ctx, out.UserID, customerID); err != nil {
		log.Warn("Failed to store mapping", zap.Uint64("user_id", out.UserID), zap.Error(err))
		out.Action, out.Error = ActionFailed, err.Error()
		return out
	}

	log.Debug("User mapped", zap.Uint64("user_id", out.UserID), zap.String("customer_id", customerID))
	out.Action, out.CustomerID = ActionMapped, customerID
	return out
}

// OnUserCreated resolves a newly created user unconditionally. A user that cannot be
// loaded, or has no email, is ignored.
func (e *Engine) OnUserCreated(ctx context.Context, userID uint64) (Outcome, error) {
	log := e.logger.With(zap.String("trigger", string(TriggerUserCreated)))

	u, err := e.directory.Get(ctx, userID)
	if err != nil || NormalizeEmail(u.Email) == "" {
		log.Debug("User unavailable, ignoring event", zap.Uint64("user_id", userID), zap.Error(err))
		return Outcome{UserID: userID, Action: ActionIgnored}, nil
	}

	out := e.resolveAndStore(ctx, Outcome{UserID: u.ID, Email: u.Email}, log)
	if out.Action == ActionFailed {
		return out, errors.New(out.Error)
	}
	return out, nil
}

// OnEmailChanged re-resolves after an email change. When the new email has no
// customer, any existing mapping is deleted so it cannot point at the old email's
// customer. Emails equal after trimming are a no-op.
func (e *Engine) OnEmailChanged(ctx context.Context, userID uint64, oldEmail, newEmail string) (Outcome, error) {
	log := e.logger.With(zap.String("trigger", string(TriggerEmailChanged)))
	out := Outcome{UserID: userID, Email: newEmail}

	if NormalizeEmail(oldEmail) == NormalizeEmail(newEmail) {
		out.Action = ActionIgnored
		return out, nil
	}

	out = e.resolveAndStore(ctx, out, log)
	switch out.Action {
	case ActionFailed:
		return out, errors.New(out.Error)
	case ActionUnmatched:
		if err := e.mappings.Delete(ctx, userID); err != nil {
			log.Warn("Failed to delete stale mapping", zap.Uint64("user_id", userID), zap.Error(err))
			out.Action, out.Error = ActionFailed, err.Error()
			return out, fmt.Errorf("failed to delete mapping for user %d: %w", userID, err)
		}
		log.Info("Mapping removed after email change", zap.Uint64("user_id", userID))
		out.Action = ActionRemoved
	}
	return out, nil
}

// Resync re-resolves a user's mapping, ignoring any existing one. On a miss the stored
// mapping is left unchanged and ErrCustomerNotFound is returned.
func (e *Engine) Resync(ctx context.Context, userID uint64) (Outcome, error) {
	log := e.logger.With(zap.String("trigger", string(TriggerResync)))

	u, err := e.directory.Get(ctx, userID)
	if err != nil {
		return Outcome{UserID: userID, Action: ActionFailed, Error: err.Error()}, err
	}

	out := e.resolveAndStore(ctx, Outcome{UserID: u.ID, Email: u.Email}, log)
	switch out.Action {
	case ActionFailed:
		return out, errors.New(out.Error)
	case ActionUnmatched:
		return out, ErrCustomerNotFound
	}
	return out, nil
}

// Lookup finds the user for a user-entered email and returns its mapping, resolving
// and storing it when absent. A miss returns the user with ErrCustomerNotFound and
// stores nothing.
func (e *Engine) Lookup(ctx context.Context, email string) (*LookupResult, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)

	u, err := e.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, platform.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	result := &LookupResult{User: *u}

	existing, ok, err := e.mappings.Get(ctx, u.ID)
	if err != nil {
		return result, fmt.Errorf("failed to read mapping: %w", err)
	}
	if ok {
		result.CustomerID, result.Cached = existing, true
		return result, nil
	}

	customerID, ok := e.resolver.Resolve(ctx, email)
	if !ok {
		return result, ErrCustomerNotFound
	}
	if err := e.mappings.Set(ctx, u.ID, customerID); err != nil {
		return result, fmt.Errorf("failed to store mapping: %w", err)
	}

	result.CustomerID = customerID
	return result, nil
}

// CustomerID returns the stored mapping of a user.
func (e *Engine) CustomerID(ctx context.Context, userID uint64) (string, error) {
	if _, err := e.directory.Get(ctx, userID); err != nil {
		return "", err
	}
	id, ok, err := e.mappings.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to read mapping: %w", err)
	}
	if !ok {
		return "", ErrCustomerNotFound
	}
	return id, nil
}

package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Event is a host platform lifecycle event.
type Event interface {
	// Name identifies the event type in logs.
	Name() string
}

// UserSnapshot is the state of a user before or after a profile update.
type UserSnapshot struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// UserCreated fires once when a user registers.
type UserCreated struct {
	UserID uint64 `json:"user_id"`
}

// ProviderCustomerCreated fires when a payment integration creates a customer for a user.
type ProviderCustomerCreated struct {
	UserID uint64 `json:"user_id"`
}

// ProfileUpdated fires after a profile save with the old and new user state.
type ProfileUpdated struct {
	UserID uint64       `json:"user_id"`
	Old    UserSnapshot `json:"old"`
	New    UserSnapshot `json:"new"`
}

func (UserCreated) Name() string             { return "user_created" }
func (ProviderCustomerCreated) Name() string { return "provider_customer_created" }
func (ProfileUpdated) Name() string          { return "profile_updated" }

// EventHandler is the subset of Engine the dispatcher drives.
type EventHandler interface {
	OnUserCreated(ctx context.Context, userID uint64) (Outcome, error)
	OnEmailChanged(ctx context.Context, userID uint64, oldEmail, newEmail string) (Outcome, error)
}

// Dispatcher routes lifecycle events to the engine. Host adapters call Dispatch;
// the engine never sees platform event names.
type Dispatcher struct {
	handler EventHandler
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher for handler.
func NewDispatcher(handler EventHandler, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{handler: handler, logger: logger}
}

// Dispatch handles one event synchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (Outcome, error) {
	var (
		out Outcome
		err error
	)

	switch e := ev.(type) {
	case UserCreated:
		out, err = d.handler.OnUserCreated(ctx, e.UserID)
	case ProviderCustomerCreated:
		out, err = d.handler.OnUserCreated(ctx, e.UserID)
	case ProfileUpdated:
		userID := e.UserID
		if userID == 0 {
			userID = e.New.ID
		}
		out, err = d.handler.OnEmailChanged(ctx, userID, e.Old.Email, e.New.Email)
	default:
		return Outcome{}, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}

	d.logger.Info("Event handled",
		zap.String("event", ev.Name()),
		zap.Uint64("user_id", out.UserID),
		zap.String("action", string(out.Action)),
		zap.Error(err))
	return out, err
}

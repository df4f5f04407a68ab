package reconcile

import (
	"context"
	"time"

	"stripe-sync/core/platform"
)

// Directory is the host platform's user directory.
type Directory interface {
	// Get returns the user by ID or platform.ErrUserNotFound.
	Get(ctx context.Context, id uint64) (*platform.User, error)

	// FindByEmail returns the user with the exact email or platform.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*platform.User, error)

	// List returns up to limit users with ID greater than afterID, in ID order.
	List(ctx context.Context, afterID uint64, limit int) ([]platform.User, error)

	// ListRegisteredSince is List restricted to users registered at or after since.
	ListRegisteredSince(ctx context.Context, since time.Time, afterID uint64, limit int) ([]platform.User, error)
}

// MappingStore persists the user to customer association. An empty stored value
// counts as absent.
type MappingStore interface {
	Get(ctx context.Context, userID uint64) (customerID string, ok bool, err error)
	Set(ctx context.Context, userID uint64, customerID string) error
	Delete(ctx context.Context, userID uint64) error
}

// PlatformMapping adapts the platform attribute store to MappingStore.
type PlatformMapping struct {
	store *platform.Store
}

// NewPlatformMapping creates a MappingStore backed by the platform attribute table.
func NewPlatformMapping(store *platform.Store) *PlatformMapping {
	return &PlatformMapping{store: store}
}

func (m *PlatformMapping) Get(ctx context.Context, userID uint64) (string, bool, error) {
	return m.store.GetCustomerID(ctx, userID)
}

func (m *PlatformMapping) Set(ctx context.Context, userID uint64, customerID string) error {
	return m.store.SetCustomerID(ctx, userID, customerID)
}

func (m *PlatformMapping) Delete(ctx context.Context, userID uint64) error {
	return m.store.DeleteCustomerID(ctx, userID)
}

package reconcile

import (
	"context"
	"time"

	"stripe-sync/core/payments"

	"go.uber.org/zap"
)

// Resolver maps an email to at most one provider customer ID.
type Resolver interface {
	Resolve(ctx context.Context, email string) (customerID string, ok bool)
}

// CustomerResolver resolves emails through the payment provider's customer search.
// Provider failures are logged and reported as no match; each call makes at most one
// provider request bounded by timeout.
type CustomerResolver struct {
	client  payments.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewResolver creates a resolver. A non-positive timeout defaults to 10s.
func NewResolver(client payments.Client, timeout time.Duration, logger *zap.Logger) *CustomerResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerResolver{client: client, timeout: timeout, logger: logger}
}

// Resolve returns the ID of the first customer whose email matches exactly.
func (r *CustomerResolver) Resolve(ctx context.Context, email string) (string, bool) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	customers, err := r.client.SearchCustomersByEmail(ctx, email, 1)
	if err != nil {
		r.logger.Warn("Customer lookup failed, treating as no match",
			zap.String("email", email),
			zap.Error(err))
		return "", false
	}
	if len(customers) == 0 || customers[0].ID == "" {
		return "", false
	}
	return customers[0].ID, true
}

package payments

import (
	"context"
	"net/http"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/paymentmethod"
	"go.uber.org/zap"
)

// StripeClient implements Client on top of stripe-go. The secret key is injected at
// construction and scoped to this client; the package-level stripe.Key is never set.
type StripeClient struct {
	customers      *customer.Client
	paymentMethods *paymentmethod.Client
	logger         *zap.Logger
}

// NewStripeClient creates a Stripe client from configuration.
// Network retries are disabled: every call is made at most once and is bounded by
// the configured timeout.
func NewStripeClient(cfg Config, logger *zap.Logger) (*StripeClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout()},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     logger.Named("stripe").Sugar(),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	return &StripeClient{
		customers:      &customer.Client{B: backend, Key: cfg.SecretKey},
		paymentMethods: &paymentmethod.Client{B: backend, Key: cfg.SecretKey},
		logger:         logger,
	}, nil
}

// SearchCustomersByEmail lists customers filtered by exact email, fetching a single page.
func (c *StripeClient) SearchCustomersByEmail(ctx context.Context, email string, limit int64) ([]Customer, error) {
	if limit <= 0 {
		limit = 1
	}

	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)
	params.Single = true

	var out []Customer
	it := c.customers.List(params)
	for it.Next() && int64(len(out)) < limit {
		cu := it.Customer()
		out = append(out, Customer{ID: cu.ID, Email: cu.Email})
	}
	if err := it.Err(); err != nil {
		return nil, newProviderError("search_customers", err)
	}
	return out, nil
}

// ListPaymentMethods lists a customer's saved payment methods of one type.
func (c *StripeClient) ListPaymentMethods(ctx context.Context, customerID, methodType string) ([]PaymentMethod, error) {
	if methodType == "" {
		methodType = string(stripe.PaymentMethodTypeCard)
	}

	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(methodType),
	}
	params.Context = ctx

	out := []PaymentMethod{}
	it := c.paymentMethods.List(params)
	for it.Next() {
		pm := it.PaymentMethod()
		m := PaymentMethod{ID: pm.ID}
		if pm.Card != nil {
			m.Brand = string(pm.Card.Brand)
			m.Last4 = pm.Card.Last4
			m.ExpMonth = pm.Card.ExpMonth
			m.ExpYear = pm.Card.ExpYear
		}
		out = append(out, m)
	}
	if err := it.Err(); err != nil {
		return nil, newProviderError("list_payment_methods", err)
	}
	return out, nil
}

// Ping lists a single customer to verify connectivity and the credential.
func (c *StripeClient) Ping(ctx context.Context) error {
	params := &stripe.CustomerListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true

	it := c.customers.List(params)
	for it.Next() {
	}
	if err := it.Err(); err != nil {
		return newProviderError("ping", err)
	}
	return nil
}

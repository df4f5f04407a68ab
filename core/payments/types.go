package payments

import "context"

// Customer is a remote customer record. It is only ever searched, never created or mutated.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// PaymentMethod is read-only card metadata of a saved payment instrument.
type PaymentMethod struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
}

// Client is the payment provider directory.
type Client interface {
	// SearchCustomersByEmail returns at most limit customers whose email matches exactly.
	SearchCustomersByEmail(ctx context.Context, email string, limit int64) ([]Customer, error)
	// ListPaymentMethods returns the customer's saved payment methods of the given type (e.g. "card").
	ListPaymentMethods(ctx context.Context, customerID, methodType string) ([]PaymentMethod, error)
	// Ping verifies that the provider is reachable and the credential is accepted.
	Ping(ctx context.Context) error
}

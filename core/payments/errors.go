package payments

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
)

// ProviderError wraps a network, authentication or rate-limit failure from Stripe.
type ProviderError struct {
	// Op is the operation that failed (e.g. "search_customers").
	Op string
	// Code is the Stripe error code when available.
	Code string
	// Status is the HTTP status code when available.
	Status int
	// Message is the provider's message.
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe %s failed: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("stripe %s failed: %s", e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// newProviderError converts an error returned by stripe-go into a ProviderError.
func newProviderError(op string, err error) error {
	if err == nil {
		return nil
	}

	pe := &ProviderError{Op: op, Message: err.Error(), Err: err}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		pe.Code = string(stripeErr.Code)
		pe.Status = stripeErr.HTTPStatusCode
		if stripeErr.Msg != "" {
			pe.Message = stripeErr.Msg
		}
	}
	return pe
}

// Package payments is the payment provider collaborator, implemented on Stripe.
//
// The Client interface exposes the only provider operations this system needs:
//
//   - SearchCustomersByEmail: the customer directory lookup used by the resolver.
//   - ListPaymentMethods: read-only card metadata for an already mapped customer.
//   - Ping: connectivity check used by the integrity feature.
//
// Nothing here creates or mutates provider objects.
//
// # Credentials
//
// StripeClient receives the secret key through Config at construction and uses a
// dedicated stripe-go backend; it never assigns the global stripe.Key. A missing key
// yields ErrMissingSecretKey.
//
// # Errors
//
// Every stripe-go failure is returned as *ProviderError carrying the operation, the
// Stripe error code and HTTP status when present. Callers decide whether to swallow it
// (the resolver does) or to surface it (the payment-methods listing does).
package payments

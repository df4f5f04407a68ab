// Package integrity provides health checks for the systems stripe-sync depends on.
//
// # Checks Provided
//
//   - Server: Validates that the platform tables of the configured profile have the expected columns and types.
//   - Storage: Checks that the report archive bucket exists (supports creating it).
//   - Provider: Performs a minimal authenticated call against Stripe.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks. Responds 503 when one fails.
//   - GET /integrity/server : Runs the platform schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/provider : Runs the Stripe check.
package integrity

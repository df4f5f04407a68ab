// Package customers implements the admin operations on user to customer mappings.
//
// The Service is the batch/report façade: LookupOne and LookupMany return a Result per
// email (success flag, user ID, customer ID, message) and never an error, so every
// caller can render a row for every input. Resync, the sync passes, the mapped and
// unmapped listings and the read-only payment method listing sit next to it.
//
// Rendering is kept out of the service: the Handler serializes Results as JSON and the
// CLI prints them with FormatResult.
//
// Routes (under /customers):
//   - POST /sync, POST /sync/recent
//   - GET /lookup?email=, POST /lookup
//   - GET /mapped?page=, GET /unmapped?page=
//   - POST /{id}/resync, GET /{id}/payment-methods
//
// Archive is a reconcile.Reporter that stores each pass summary in object storage.
package customers

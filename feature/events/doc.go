// Package events is the HTTP adapter for host platform lifecycle events.
//
// A platform plugin posts JSON to:
//   - POST /events/user-created      {"user_id": 42}
//   - POST /events/customer-created  {"user_id": 42}
//   - POST /events/profile-updated   {"user_id": 42, "old": {"email": "..."}, "new": {"email": "..."}}
//
// Payloads are turned into reconcile events and handed to the dispatcher; the
// response body is the resulting reconcile.Outcome.
package events

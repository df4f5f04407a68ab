// Package server holds the admin HTTP server configuration.
//
// The cmd/start command owns the Fiber application lifecycle; this package only defines
// the listen port and the API key that core/middleware/auth enforces.
package server

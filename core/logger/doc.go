// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework used by the admin API.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID (request ID) from a Fiber context and attaches it to the
// log entry, so every line written while handling a lookup or a sync request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (CLI and development)
//
// The Stripe secret key must never be passed to a logger. Components that hold it
// (core/payments) only log operation names and provider error messages.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync pass finished", zap.Int("mapped", 12))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Lookup failed", zap.Error(err))
package logger

package payments

import (
	"errors"
	"time"
)

// ErrMissingSecretKey is returned when no Stripe secret key is configured.
var ErrMissingSecretKey = errors.New("stripe secret key is not configured (set STRIPE_SECRET_KEY)")

// Config holds configuration for the Stripe client.
type Config struct {
	// SecretKey is the Stripe secret API key. It must come from the environment and is never logged.
	SecretKey string `mapstructure:"secret_key" default:""`
	// TimeoutSeconds bounds every Stripe call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// APIURL overrides the Stripe API base URL (stripe-mock, tests).
	APIURL string `mapstructure:"api_url" default:""`
}

// Validate checks that a secret key is present.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	return nil
}

// Timeout returns the per-call timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

package platform

import (
	"fmt"
	"regexp"
)

const (
	ProfileWordPress = "wordpress"
	ProfileNative    = "native"
)

var tablePrefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Config holds configuration for the host platform schema.
type Config struct {
	// Profile selects the table layout (wordpress, native).
	Profile string `mapstructure:"profile" default:"wordpress"`
	// TablePrefix is prepended to table names for the wordpress profile.
	TablePrefix string `mapstructure:"table_prefix" default:"wp_"`
	// MetaKey is the reserved attribute key holding the Stripe customer ID.
	MetaKey string `mapstructure:"meta_key" default:"_stripe_customer_id"`
	// PerPage is the page size for mapped/unmapped listings.
	PerPage int `mapstructure:"per_page" default:"20"`
}

// IsValidProfile checks if the configured profile is supported.
func (c Config) IsValidProfile() bool {
	switch c.Profile {
	case ProfileWordPress, ProfileNative:
		return true
	default:
		return false
	}
}

// Validate checks the profile, the table prefix and the meta key.
func (c Config) Validate() error {
	if !c.IsValidProfile() {
		return fmt.Errorf("unknown platform profile: %s", c.Profile)
	}
	if !tablePrefixPattern.MatchString(c.TablePrefix) {
		return fmt.Errorf("invalid table prefix: %q", c.TablePrefix)
	}
	if c.MetaKey == "" {
		return fmt.Errorf("platform meta key must not be empty")
	}
	return nil
}

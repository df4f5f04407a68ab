package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"stripe-sync/core/database"
	"stripe-sync/core/lock"
	"stripe-sync/core/logger"
	"stripe-sync/core/payments"
	"stripe-sync/core/platform"
	"stripe-sync/core/reconcile"
	"stripe-sync/core/server"
	"stripe-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingSecretKey is returned by RequireStripe when STRIPE_SECRET_KEY is unset.
var ErrMissingSecretKey = payments.ErrMissingSecretKey

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used by the report archive.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the host platform database connection.
	Database database.Config `mapstructure:"database"`
	// Stripe holds the payment provider credential and timeouts.
	Stripe payments.Config `mapstructure:"stripe"`
	// Platform selects the host platform schema.
	Platform platform.Config `mapstructure:"platform"`
	// Sync holds reconciliation pass settings.
	Sync reconcile.Config `mapstructure:"sync"`
	// Redis holds the optional distributed run lock.
	Redis lock.Config `mapstructure:"redis"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. STRIPE_SECRET_KEY -> stripe.secret_key)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks settings every command depends on.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Platform.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !database.IsSupportedDriver(c.Database.Driver) {
		errs = append(errs, fmt.Errorf("unsupported database driver: %s", c.Database.Driver))
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required when storage is enabled"))
	}
	return errors.Join(errs...)
}

// RequireStripe checks that the Stripe credential is present.
func (c *Config) RequireStripe() error {
	return c.Stripe.Validate()
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

// Package config provides configuration management for stripe-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: host platform database connection (mysql, sqlite)
//   - Platform: schema profile, table prefix, mapping meta key
//   - Stripe: secret key (STRIPE_SECRET_KEY) and call timeout
//   - Sync: schedule, recent window, batch size
//   - Redis: optional distributed run lock
//   - Storage: S3/MinIO settings for the sync report archive
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.RequireStripe(); err != nil {
//	    log.Fatal(err)
//	}
package config

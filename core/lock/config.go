package lock

import "time"

// Config holds configuration for the distributed run lock.
type Config struct {
	// Addr is the Redis address (host:port or redis:// URL). Empty disables the distributed lock.
	Addr string `mapstructure:"addr" default:""`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database index.
	DB int `mapstructure:"db" default:"0"`
	// LockTTLSeconds bounds how long a crashed run can hold the lock.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" default:"3600"`
	// KeyPrefix namespaces lock keys.
	KeyPrefix string `mapstructure:"key_prefix" default:"stripe-sync:lock:"`
}

// Enabled reports whether a Redis address is configured.
func (c Config) Enabled() bool {
	return c.Addr != ""
}

// TTL returns the lock expiry.
func (c Config) TTL() time.Duration {
	if c.LockTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.LockTTLSeconds) * time.Second
}

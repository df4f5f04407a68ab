package reconcile

import "time"

// Config holds configuration for reconciliation passes.
type Config struct {
	// ScheduleEnabled registers the bulk pass with the scheduler when the server starts.
	ScheduleEnabled bool `mapstructure:"schedule_enabled" default:"false"`
	// Interval is the bulk pass schedule (Go duration syntax).
	Interval string `mapstructure:"interval" default:"24h"`
	// RecentWindowDays is the trailing registration window of the recent pass.
	RecentWindowDays int `mapstructure:"recent_window_days" default:"7"`
	// BatchSize is the number of users read per directory page.
	BatchSize int `mapstructure:"batch_size" default:"200"`
}

// IntervalDuration returns the parsed schedule interval, falling back to 24h.
func (c Config) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// RecentWindow returns the recent pass window.
func (c Config) RecentWindow() time.Duration {
	days := c.RecentWindowDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return 200
	}
	return c.BatchSize
}

package tasks

import (
	"time"

	"github.com/bookfriends/server/internal/config"
)

// Config holds configuration for the task queue. Retry policy lives on each
// task type's QueueConfig.
type Config struct {
	Workers int

	// ReleaseAfter hands a claimed task back to the queue when its worker
	// has held it this long.
	ReleaseAfter    time.Duration
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// FromSettings converts the application task settings, keeping defaults for
// anything left at zero.
func FromSettings(s config.Tasks) Config {
	cfg := DefaultConfig()
	if s.Workers > 0 {
		cfg.Workers = s.Workers
	}
	if s.ReleaseAfter > 0 {
		cfg.ReleaseAfter = s.ReleaseAfter
	}
	if s.CleanupInterval > 0 {
		cfg.CleanupInterval = s.CleanupInterval
	}
	return cfg
}

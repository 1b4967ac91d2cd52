package tasks

import "time"

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// MaxAttempts is the maximum attempts per item task. Default: 3
	MaxAttempts int

	// Backoff is the delay between retries of a failed task. Default: 30s
	Backoff time.Duration

	// TaskTimeout is the timeout for a single item task. Default: 2m
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration

	// RetentionDuration is how long to keep completed tasks. Default: 24h
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxAttempts:       3,
		Backoff:           30 * time.Second,
		TaskTimeout:       2 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

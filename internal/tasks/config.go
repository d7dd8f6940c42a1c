package tasks

import "time"

// DefaultAuditRetentionDays applies when a cleanup task carries no retention.
const DefaultAuditRetentionDays = 30

type Config struct {
	// Workers is the number of concurrent task workers.
	Workers int

	// ReleaseAfter returns stuck tasks to their queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished tasks are purged.
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    5 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

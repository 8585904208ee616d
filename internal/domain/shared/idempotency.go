package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs a handler already saw.
// The outbox redelivers on failure, subscribers with side effects like
// mail consult this before acting.
type IdempotencyStore interface {
	// MarkProcessed claims the event ID for ttl. False means another
	// delivery got there first.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig tunes the deduplication window.
type IdempotencyConfig struct {
	// TTL bounds how long a claim lasts. The outbox never redelivers
	// this far out, 24 hours is plenty.
	TTL time.Duration

	// Enabled false passes every event straight through
	Enabled bool
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}

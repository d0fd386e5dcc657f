package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks keys that have already been acted on, so a
// retried submission does not repeat its side effect
type IdempotencyStore interface {
	// MarkProcessed records a key with a TTL; returns true if the key
	// was newly recorded, false if it was already present
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a key has been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any underlying resources
	Close() error
}

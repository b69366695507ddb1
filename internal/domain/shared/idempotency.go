package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which operation keys have already been processed.
// Used to guard against duplicate submissions (e.g., a bulk import retried
// by the client after a network timeout).
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// IsProcessed checks whether a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Close releases any resources held by the store
	Close() error
}

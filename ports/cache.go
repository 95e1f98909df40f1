package ports

import (
	"context"
	"time"
)

// ResponseCache stores rendered responses keyed by request method and path.
// Only idempotent catalog reads are cached; session and mutation endpoints
// must never pass through it.
type ResponseCache interface {
	// Get returns the cached payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores payload under key for ttl.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

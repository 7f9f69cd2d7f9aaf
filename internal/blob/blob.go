package blob

import (
	"context"
	"time"
)

// Store persists generated artifacts (recap reports, uploaded media) and
// hands out time-limited read URLs.
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

package repository

import (
	"context"
	"time"

	"github.com/user/reel-locator/internal/entity"
)

// ResolutionCache remembers successful resolutions per reel URL.
type ResolutionCache interface {
	// Get returns the cached resolution for a reel URL, or ErrCacheMiss.
	Get(ctx context.Context, reelURL string) (*entity.Resolution, error)
	// Put stores a resolution with a specific expiry time.
	Put(ctx context.Context, reelURL string, res *entity.Resolution, ttl time.Duration) error
	// Forget removes a reel URL from the cache.
	Forget(ctx context.Context, reelURL string) error
}

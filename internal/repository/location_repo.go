package repository

import (
	"context"

	"github.com/user/reel-locator/internal/entity"
)

// LocationStore is the append-only record store.
type LocationStore interface {
	// Append durably adds a record. Concurrent appends must not lose updates.
	Append(ctx context.Context, record *entity.LocationRecord) error
	// Nearby returns records whose distance is at most maxKm, closest first.
	// Records without a distance are never returned.
	Nearby(ctx context.Context, maxKm float64) ([]*entity.LocationRecord, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
}

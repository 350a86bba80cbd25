package repository

import (
	"context"

	"github.com/user/reel-locator/internal/entity"
)

// PlaceSearcher resolves a free-text query to a place.
type PlaceSearcher interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// SearchPlace returns the best match for q, or ErrNoResult.
	SearchPlace(ctx context.Context, q *entity.LocationQuery) (*entity.PlaceResult, error)
}

// PlaceDetailer looks a place up by its provider identifier.
type PlaceDetailer interface {
	// PlaceDetails returns the place for placeID. An error payload from the provider is
	// reported as ErrProviderRejected.
	PlaceDetails(ctx context.Context, placeID string) (*entity.PlaceResult, error)
}

package repository

import (
	"context"

	"github.com/user/reel-locator/internal/entity"
)

// Geocoder converts an address into coordinates.
type Geocoder interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Geocode returns the coordinates of address, or ErrNoResult.
	Geocode(ctx context.Context, address string) (*entity.Coordinates, error)
}

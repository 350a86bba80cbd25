package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/region"
)

// AddressGeocoder resolves addresses through geocoding providers in priority order.
type AddressGeocoder struct {
	geocoders []repository.Geocoder
	logger    *zap.Logger
}

func NewAddressGeocoder(logger *zap.Logger, geocoders ...repository.Geocoder) *AddressGeocoder {
	return &AddressGeocoder{geocoders: geocoders, logger: logger}
}

// Geocode returns coordinates for address, or false when every provider fails.
func (g *AddressGeocoder) Geocode(ctx context.Context, p region.Profile, address string) (*entity.Coordinates, bool) {
	refined := RefineAddress(p, address)
	if refined == "" {
		return nil, false
	}
	g.logger.Info("Geocoding refined address", zap.String("address", refined))

	coords, provider, ok := firstUsable(ctx, g.logger, g.geocoders,
		func(ctx context.Context, gc repository.Geocoder) (*entity.Coordinates, error) {
			return gc.Geocode(ctx, refined)
		},
		func(c *entity.Coordinates) bool { return c != nil },
	)
	if !ok {
		return nil, false
	}
	g.logger.Info("Geocoding successful",
		zap.String("provider", provider),
		zap.Float64("lat", coords.Lat),
		zap.Float64("lon", coords.Lon),
	)
	return coords, true
}

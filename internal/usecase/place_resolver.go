package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/mapsurl"
)

// PlaceResolver searches places providers in priority order.
type PlaceResolver struct {
	searchers []repository.PlaceSearcher
	logger    *zap.Logger
}

func NewPlaceResolver(logger *zap.Logger, searchers ...repository.PlaceSearcher) *PlaceResolver {
	return &PlaceResolver{searchers: searchers, logger: logger}
}

// Resolve returns the first place found, or nil when no provider knows the query.
func (r *PlaceResolver) Resolve(ctx context.Context, q *entity.LocationQuery) *entity.PlaceResult {
	r.logger.Info("Searching places", zap.String("query", q.SearchText()))

	place, provider, ok := firstUsable(ctx, r.logger, r.searchers,
		func(ctx context.Context, s repository.PlaceSearcher) (*entity.PlaceResult, error) {
			return s.SearchPlace(ctx, q)
		},
		func(p *entity.PlaceResult) bool { return p != nil },
	)
	if !ok {
		return nil
	}

	if !place.HasCoordinates() {
		if lat, lon, found := mapsurl.ParseCoordinates(place.MapsURL); found {
			place.Lat, place.Lon = entity.Float(lat), entity.Float(lon)
		}
	}
	r.logger.Info("Place found",
		zap.String("provider", provider),
		zap.String("name", place.Name),
		zap.Bool("has_coordinates", place.HasCoordinates()),
	)
	return place
}

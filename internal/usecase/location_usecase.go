package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/geo"
	"github.com/user/reel-locator/pkg/metrics"
)

// DefaultNearbyRadiusKm is used when the caller gives no radius.
const DefaultNearbyRadiusKm = 50.0

var (
	ErrInvalidRecord = errors.New("instagram_url and location_data are required")
	ErrInvalidRadius = errors.New("max_distance must not be negative")
)

// LocationService saves resolved reels and answers proximity queries.
type LocationService interface {
	Save(ctx context.Context, instagramURL string, data entity.LocationData) (*entity.LocationRecord, error)
	Nearby(ctx context.Context, maxKm float64) ([]*entity.LocationRecord, error)
	Count(ctx context.Context) (int64, error)
	ReferencePoint() entity.ReferencePoint
}

type locationUseCase struct {
	store     repository.LocationStore
	publisher repository.LocationPublisher
	ref       entity.ReferencePoint
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewLocationService creates the service. publisher may be nil. Stored distances are
// measured from ref, which stays fixed for the life of the service.
func NewLocationService(
	store repository.LocationStore,
	publisher repository.LocationPublisher,
	ref entity.ReferencePoint,
	logger *zap.Logger,
) LocationService {
	return &locationUseCase{
		store:     store,
		publisher: publisher,
		ref:       ref,
		logger:    logger,
		now:       time.Now,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

func (uc *locationUseCase) ReferencePoint() entity.ReferencePoint {
	return uc.ref
}

// Save stamps the record with an ID, timestamp and distance from the reference point,
// then appends it. Publishing is best effort.
func (uc *locationUseCase) Save(ctx context.Context, instagramURL string, data entity.LocationData) (*entity.LocationRecord, error) {
	instagramURL = strings.TrimSpace(instagramURL)
	if instagramURL == "" {
		return nil, ErrInvalidRecord
	}

	now := uc.now().UTC()
	record := &entity.LocationRecord{
		ID:           uc.newID(now),
		InstagramURL: instagramURL,
		Location:     data,
		Timestamp:    now,
	}
	record.Location.DistanceKm = nil
	if data.HasCoordinates() {
		d := geo.DistanceKm(uc.ref.Lat, uc.ref.Lon, *data.Lat, *data.Lon)
		record.Location.DistanceKm = &d
		record.Geohash = geo.Geohash(*data.Lat, *data.Lon)
	}

	if err := uc.store.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append location record for %s: %w", instagramURL, err)
	}
	metrics.LocationsSavedTotal.Inc()
	uc.logger.Info("Saved reel location",
		zap.String("id", record.ID),
		zap.String("url", instagramURL),
		zap.Bool("has_distance", record.Location.DistanceKm != nil),
	)

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, record); err != nil {
			// This is not a critical error, the record is already stored.
			uc.logger.Warn("Failed to publish location record", zap.String("id", record.ID), zap.Error(err))
		}
	}
	return record, nil
}

func (uc *locationUseCase) Nearby(ctx context.Context, maxKm float64) ([]*entity.LocationRecord, error) {
	if maxKm < 0 {
		return nil, ErrInvalidRadius
	}
	records, err := uc.store.Nearby(ctx, maxKm)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby locations: %w", err)
	}
	return records, nil
}

func (uc *locationUseCase) Count(ctx context.Context) (int64, error) {
	return uc.store.Count(ctx)
}

func (uc *locationUseCase) newID(t time.Time) string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), uc.entropy).String()
}

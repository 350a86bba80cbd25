package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/mapsurl"
	"github.com/user/reel-locator/pkg/metrics"
	"github.com/user/reel-locator/pkg/region"
	"github.com/user/reel-locator/pkg/utils"
)

const (
	unknownPlace   = "Unknown Place"
	unknownAddress = "Unknown Address"
)

// Locator resolves a reel URL to a map location.
type Locator interface {
	// Locate always returns a resolution; failures are encoded in its Source.
	Locate(ctx context.Context, reelURL string) *entity.Resolution
}

// ProfileSource yields the region profile in effect.
type ProfileSource interface {
	Current() region.Profile
}

// Capabilities are the collaborators the pipeline is built from.
// Details, Cache and Archive are optional.
type Capabilities struct {
	Captions *CaptionSource
	Entities *EntityExtractor
	Places   *PlaceResolver
	Geocoder *AddressGeocoder
	Details  repository.PlaceDetailer
	Cache    repository.ResolutionCache
	Archive  repository.CaptionArchive
	Profile  ProfileSource
	CacheTTL time.Duration
}

type locatorUseCase struct {
	caps   Capabilities
	logger *zap.Logger
}

// NewLocator creates the pipeline orchestrator.
func NewLocator(caps Capabilities, logger *zap.Logger) Locator {
	return &locatorUseCase{caps: caps, logger: logger}
}

func (uc *locatorUseCase) Locate(ctx context.Context, reelURL string) (res *entity.Resolution) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Unexpected error in pipeline", zap.Any("panic", r), zap.Stack("stack"))
			res = &entity.Resolution{
				LocationText: "Internal server error",
				Error:        "An unexpected error occurred. Please try again.",
				Source:       entity.SourceServerError,
			}
		}
		metrics.ResolutionsTotal.WithLabelValues(string(res.Source)).Inc()
	}()

	profile := uc.caps.Profile.Current()
	reelURL = strings.TrimSpace(reelURL)
	uc.logger.Info("Received URL", zap.String("url", reelURL))

	if invalid := validateReelURL(profile, reelURL); invalid != nil {
		return invalid
	}

	if placeID, ok := mapsurl.ShortcutPlaceID(profile.ShortcutDomains, reelURL); ok {
		return uc.resolveShortcut(ctx, profile, placeID)
	}

	if cached := uc.cached(ctx, reelURL); cached != nil {
		return cached
	}

	res = uc.extractAndResolve(ctx, profile, reelURL)
	if res.Located() {
		uc.remember(ctx, reelURL, res)
	}
	return res
}

func validateReelURL(p region.Profile, reelURL string) *entity.Resolution {
	if reelURL == "" {
		return &entity.Resolution{
			LocationText: "No URL provided",
			Error:        "Instagram reel URL is required",
			Source:       entity.SourceValidationError,
		}
	}
	u, err := utils.ParseLoose(reelURL)
	if err == nil {
		host := u.Hostname()
		for _, d := range append(append([]string{}, p.ReelDomains...), p.ShortcutDomains...) {
			if utils.HostMatches(host, d) {
				return nil
			}
		}
	}
	return &entity.Resolution{
		LocationText: "Invalid URL format",
		Error:        "Please provide a valid Instagram reel URL or SerpAPI URL",
		Source:       entity.SourceValidationError,
	}
}

// resolveShortcut looks a place up directly by the identifier embedded in a search
// provider URL. The caption is never fetched on this path.
func (uc *locatorUseCase) resolveShortcut(ctx context.Context, p region.Profile, placeID string) *entity.Resolution {
	fallbackURL := mapsurl.PlaceID(placeID)
	uc.logger.Info("Shortcut URL detected", zap.String("place_id", placeID))

	if uc.caps.Details == nil {
		return &entity.Resolution{
			LocationText: "Could not process SerpAPI URL",
			Error:        "SerpAPI processing failed: " + repository.ErrNotConfigured.Error(),
			MapsURL:      entity.String(fallbackURL),
			Source:       entity.SourceShortcutError,
		}
	}

	place, err := uc.caps.Details.PlaceDetails(ctx, placeID)
	if err != nil {
		source := entity.SourcePlaceIDError
		if errors.Is(err, repository.ErrProviderRejected) {
			source = entity.SourcePlaceIDFallback
		}
		uc.logger.Warn("Place details lookup failed, using fallback link",
			zap.String("place_id", placeID),
			zap.String("source", string(source)),
			zap.Error(err),
		)
		place = &entity.PlaceResult{
			Name:    unknownPlace,
			Address: unknownAddress,
			MapsURL: fallbackURL,
			Source:  source,
		}
	} else {
		if place.Name == "" {
			place.Name = unknownPlace
		}
		if place.Address == "" {
			place.Address = unknownAddress
		}
		if place.MapsURL == "" {
			place.MapsURL = fallbackURL
		}
		if place.HasCoordinates() {
			place.MapsURL = mapsurl.Search(place.Name, *place.Lat, *place.Lon)
		}
		place.Source = entity.SourcePlaceID
	}

	return &entity.Resolution{
		LocationText: "Found: " + place.Name,
		Lat:          place.Lat,
		Lon:          place.Lon,
		MapsURL:      entity.String(mapsurl.Finalize(p.ShortcutDomains, place.MapsURL, place.Name, place.Lat, place.Lon)),
		Source:       place.Source,
		Address:      entity.String(place.Address),
	}
}

// extractAndResolve runs the caption path: caption, location text, places search and
// geocoding, in that order.
func (uc *locatorUseCase) extractAndResolve(ctx context.Context, p region.Profile, reelURL string) (res *entity.Resolution) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Error processing reel", zap.String("url", reelURL), zap.Any("panic", r), zap.Stack("stack"))
			res = processingError(fmt.Errorf("%v", r))
		}
	}()

	q := &entity.LocationQuery{ReelURL: reelURL}
	q.Caption = uc.caps.Captions.Fetch(ctx, reelURL)
	if q.Caption == "" {
		if clientGone(ctx) {
			return processingError(ctx.Err())
		}
		return &entity.Resolution{
			LocationText: "Could not extract description from Instagram reel",
			Error:        "Instagram may be restricting access or the reel has no description. Try a different reel.",
			Source:       entity.SourceExtractionFailed,
		}
	}
	uc.archive(ctx, reelURL, q.Caption)

	q.BusinessName, _ = uc.caps.Entities.BusinessName(ctx, q.Caption)

	block, found := ExtractKeywordBlock(q.Caption, p.LocationKeywords)
	if !found {
		uc.logger.Info("No location block found, using NLP extraction")
		names := uc.caps.Entities.LocationNames(ctx, q.Caption)
		if len(names) == 0 {
			return &entity.Resolution{
				LocationText: "No location information found in reel description",
				Error:        "The reel description doesn't contain recognizable location information",
				Source:       entity.SourceNoLocationFound,
			}
		}
		block = strings.Join(names, " ")
	}

	q.Location = Normalize(p, block)
	uc.logger.Info("Cleaned location block", zap.String("location", q.Location), zap.String("business", q.BusinessName))

	if place := uc.caps.Places.Resolve(ctx, q); place.HasCoordinates() {
		address := place.Address
		if address == "" {
			address = q.Location
		}
		return &entity.Resolution{
			LocationText: "Found: " + place.Name,
			Lat:          place.Lat,
			Lon:          place.Lon,
			MapsURL:      entity.String(mapsurl.Finalize(p.ShortcutDomains, place.MapsURL, place.Name, place.Lat, place.Lon)),
			Source:       place.Source,
			Address:      entity.String(address),
		}
	}

	uc.logger.Info("Direct search failed, trying geocoding fallback")
	if coords, ok := uc.caps.Geocoder.Geocode(ctx, p, q.Location); ok {
		return &entity.Resolution{
			LocationText: "Found via geocoding: " + q.Location,
			Lat:          entity.Float(coords.Lat),
			Lon:          entity.Float(coords.Lon),
			MapsURL:      entity.String(mapsurl.Coordinates(coords.Lat, coords.Lon)),
			Source:       entity.SourceGeocoding,
			Address:      entity.String(q.Location),
		}
	}

	if clientGone(ctx) {
		return processingError(ctx.Err())
	}
	return &entity.Resolution{
		LocationText: "Location identified but coordinates not found: " + q.Location,
		Error:        "Could not determine precise coordinates for this location",
		Source:       entity.SourceCoordinatesNotFound,
		Address:      entity.String(q.Location),
	}
}

// clientGone reports whether the caller cancelled the request. A passed deadline is not
// treated as cancellation: provider calls carry their own timeouts and a slow run still
// reports what it found.
func clientGone(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}

func processingError(err error) *entity.Resolution {
	return &entity.Resolution{
		LocationText: "Error processing Instagram reel",
		Error:        "Processing failed: " + err.Error(),
		Source:       entity.SourceProcessingError,
	}
}

func (uc *locatorUseCase) cached(ctx context.Context, reelURL string) *entity.Resolution {
	if uc.caps.Cache == nil {
		return nil
	}
	res, err := uc.caps.Cache.Get(ctx, reelURL)
	switch {
	case errors.Is(err, repository.ErrCacheMiss):
		metrics.ResolutionCacheTotal.WithLabelValues("miss").Inc()
		return nil
	case err != nil:
		metrics.ResolutionCacheTotal.WithLabelValues("error").Inc()
		uc.logger.Warn("Resolution cache lookup failed", zap.String("url", reelURL), zap.Error(err))
		uc.forget(ctx, reelURL)
		return nil
	case !res.Located():
		// Only located results are stored; anything else is a stale or foreign entry.
		metrics.ResolutionCacheTotal.WithLabelValues("error").Inc()
		uc.forget(ctx, reelURL)
		return nil
	}
	metrics.ResolutionCacheTotal.WithLabelValues("hit").Inc()
	uc.logger.Info("Serving cached resolution", zap.String("url", reelURL), zap.String("source", string(res.Source)))
	return res
}

func (uc *locatorUseCase) remember(ctx context.Context, reelURL string, res *entity.Resolution) {
	if uc.caps.Cache == nil || uc.caps.CacheTTL <= 0 {
		return
	}
	if err := uc.caps.Cache.Put(ctx, reelURL, res, uc.caps.CacheTTL); err != nil {
		// Not critical: the next request resolves again.
		uc.logger.Warn("Failed to cache resolution", zap.String("url", reelURL), zap.Error(err))
	}
}

func (uc *locatorUseCase) forget(ctx context.Context, reelURL string) {
	if err := uc.caps.Cache.Forget(ctx, reelURL); err != nil {
		uc.logger.Warn("Failed to evict cached resolution", zap.String("url", reelURL), zap.Error(err))
	}
}

func (uc *locatorUseCase) archive(ctx context.Context, reelURL, caption string) {
	if uc.caps.Archive == nil {
		return
	}
	if err := uc.caps.Archive.Put(ctx, reelURL, caption); err != nil {
		uc.logger.Warn("Failed to archive caption", zap.String("url", reelURL), zap.Error(err))
	}
}

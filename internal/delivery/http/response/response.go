package response

import (
	"time"

	"github.com/user/reel-locator/internal/entity"
)

type SaveLocationResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// NearbyLocation is one entry of the nearby listing.
type NearbyLocation struct {
	InstagramURL string              `json:"instagram_url"`
	LocationData entity.LocationData `json:"location_data"`
}

// TestResponse is the deployment diagnostics payload.
type TestResponse struct {
	Status          string                `json:"status"`
	Message         string                `json:"message"`
	Timestamp       time.Time             `json:"timestamp"`
	APIsConfigured  map[string]bool       `json:"apis_configured"`
	EntityTagger    string                `json:"entity_tagger"`
	StoredLocations int64                 `json:"stored_locations"`
	YourPosition    entity.ReferencePoint `json:"your_position"`
}

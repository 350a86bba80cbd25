package entity

// Source tags which path produced a Resolution. Tags are for traceability only.
type Source string

const (
	SourcePlaceID         Source = "google_maps_api_place_id"
	SourcePlaceIDFallback Source = "google_maps_api_place_id_fallback"
	SourcePlaceIDError    Source = "google_maps_api_error"
	SourceShortcutError   Source = "serpapi_error"

	SourceGoogleMaps    Source = "google_maps_api"
	SourceSerpAPIPlaces Source = "serpapi_places"
	SourceSerpAPILocal  Source = "serpapi_local"
	SourceGeocoding     Source = "geocoding_fallback"

	SourceExtractionFailed    Source = "extraction_failed"
	SourceNoLocationFound     Source = "no_location_found"
	SourceCoordinatesNotFound Source = "coordinates_not_found"

	SourceValidationError Source = "validation_error"
	SourceRequestError    Source = "request_error"
	SourceProcessingError Source = "processing_error"
	SourceServerError     Source = "server_error"
)

// Resolution is the uniform result of a pipeline invocation, whatever path produced it.
type Resolution struct {
	LocationText string   `json:"location_text"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	MapsURL      *string  `json:"maps_url"`
	Source       Source   `json:"source"`
	Address      *string  `json:"address"`
	Error        string   `json:"error,omitempty"`
}

// Located reports whether the resolution carries coordinates.
func (r *Resolution) Located() bool {
	return r != nil && r.Lat != nil && r.Lon != nil
}

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package entity

import "time"

// LocationData is the resolution payload persisted with a reel.
type LocationData struct {
	LocationText string   `json:"location_text,omitempty"`
	Name         string   `json:"name,omitempty"`
	Address      string   `json:"address,omitempty"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	MapsURL      string   `json:"maps_url,omitempty"`
	Source       Source   `json:"source,omitempty"`
	DistanceKm   *float64 `json:"distance,omitempty"`
}

// HasCoordinates reports whether both coordinates are known.
func (d LocationData) HasCoordinates() bool {
	return d.Lat != nil && d.Lon != nil
}

// LocationRecord is an append-only store entry. It is never mutated after creation.
type LocationRecord struct {
	ID           string       `json:"id"`
	InstagramURL string       `json:"instagram_url"`
	Location     LocationData `json:"location_data"`
	Geohash      string       `json:"geohash,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

// ReferencePoint is the fixed origin for distance calculations.
type ReferencePoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"address"`
}

package entity

// Coordinates is a WGS 84 latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlaceResult is a normalized answer from a places provider.
// Lat and Lon are nil when the provider did not return coordinates.
type PlaceResult struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	MapsURL string   `json:"maps_url"`
	Source  Source   `json:"source"`
}

// HasCoordinates reports whether both coordinates are known.
func (p *PlaceResult) HasCoordinates() bool {
	return p != nil && p.Lat != nil && p.Lon != nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

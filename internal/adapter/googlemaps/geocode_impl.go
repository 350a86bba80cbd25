package googlemaps

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocoder adapts the Client to repository.Geocoder.
type Geocoder struct {
	*Client
}

func (c *Client) Geocoder() *Geocoder { return &Geocoder{Client: c} }

// Name implements repository.Geocoder.
func (g *Geocoder) Name() string { return "google_geocoding" }

// Geocode requires status "OK" and at least one result.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*entity.Coordinates, error) {
	if g.APIKey == "" {
		return nil, repository.ErrNotConfigured
	}
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.APIKey)

	req, err := http.NewRequest(http.MethodGet, g.geocodeURL()+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var out geocodeResponse
	if err := g.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("google geocoding: %w", err)
	}
	switch {
	case out.Status == "ZERO_RESULTS":
		return nil, repository.ErrNoResult
	case out.Status != "OK":
		return nil, fmt.Errorf("%w: status %s %s", repository.ErrProviderRejected, out.Status, out.ErrorMessage)
	case len(out.Results) == 0:
		return nil, repository.ErrNoResult
	}
	loc := out.Results[0].Geometry.Location
	return &entity.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
}

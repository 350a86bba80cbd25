package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
)

// Geocoder uses the Mapbox Search v6 forward endpoint.
type Geocoder struct {
	Token       string
	BaseURL     string
	CountryCode string
	HTTPClient  *http.Client
}

func NewGeocoder(token, countryCode string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		Token:       token,
		CountryCode: strings.ToLower(countryCode),
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

func (g *Geocoder) Name() string { return "mapbox" }

func (g *Geocoder) endpoint() string {
	base := strings.TrimRight(strings.TrimSpace(g.BaseURL), "/")
	if base == "" {
		base = "https://api.mapbox.com"
	}
	return base + "/search/geocode/v6/forward"
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (*entity.Coordinates, error) {
	address = strings.TrimSpace(address)
	if g.Token == "" {
		return nil, repository.ErrNotConfigured
	}
	if address == "" {
		return nil, repository.ErrNoResult
	}
	form := url.Values{}
	form.Set("q", address)
	form.Set("limit", "1")
	form.Set("autocomplete", "false")
	form.Set("access_token", g.Token)
	if g.CountryCode != "" {
		form.Set("country", g.CountryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint()+"?"+form.Encode(), nil)
	if err != nil {
		return nil, err
	}
	client := g.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: mapbox status %d", repository.ErrProviderRejected, resp.StatusCode)
	}

	var decoded struct {
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if len(decoded.Features) == 0 || len(decoded.Features[0].Geometry.Coordinates) < 2 {
		return nil, repository.ErrNoResult
	}
	// GeoJSON order is lon, lat.
	c := decoded.Features[0].Geometry.Coordinates
	return &entity.Coordinates{Lat: c[1], Lon: c[0]}, nil
}

package opencage

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

const defaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"

// Geocoder is the OpenCage forward geocoder, restricted to one country.
type Geocoder struct {
	APIKey      string
	BaseURL     string
	CountryCode string
	HTTPClient  *http.Client
}

func NewGeocoder(apiKey, countryCode string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		APIKey:      apiKey,
		CountryCode: strings.ToLower(countryCode),
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

func (g *Geocoder) Name() string { return "opencage" }

func (g *Geocoder) Geocode(ctx context.Context, address string) (*entity.Coordinates, error) {
	if g.APIKey == "" {
		return nil, repository.ErrNotConfigured
	}
	base := g.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	params := url.Values{}
	params.Set("q", address)
	params.Set("key", g.APIKey)
	params.Set("limit", "1")
	if g.CountryCode != "" {
		params.Set("countrycode", g.CountryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	client := g.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opencage request: %w", err)
	}
	defer resp.Body.Close()

	var data struct {
		Status struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"status"`
		Results []struct {
			Geometry struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("opencage decode (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: opencage status %d %s", repository.ErrProviderRejected, resp.StatusCode, data.Status.Message)
	}
	if len(data.Results) == 0 {
		return nil, repository.ErrNoResult
	}
	geom := data.Results[0].Geometry
	return &entity.Coordinates{Lat: geom.Lat, Lon: geom.Lng}, nil
}

package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultPlacesURL  = "https://places.googleapis.com/v1"
	defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultTimeout    = 10 * time.Second
)

// Client talks to the Google Places v1 and Geocoding APIs.
type Client struct {
	APIKey       string
	PlacesURL    string
	GeocodeURL   string
	LanguageCode string
	RegionCode   string
	HTTPClient   *http.Client
}

// NewClient creates a client with per-call timeout.
func NewClient(apiKey, languageCode, regionCode string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		APIKey:       apiKey,
		LanguageCode: languageCode,
		RegionCode:   regionCode,
		HTTPClient:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func (c *Client) placesURL() string {
	if c.PlacesURL != "" {
		return c.PlacesURL
	}
	return defaultPlacesURL
}

func (c *Client) geocodeURL() string {
	if c.GeocodeURL != "" {
		return c.GeocodeURL
	}
	return defaultGeocodeURL
}

// apiError is the error envelope returned by Google APIs.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.httpClient().Do(req.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 256))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/mapsurl"
	"github.com/user/reel-locator/pkg/region"
)

const defaultBaseURL = "https://serpapi.com/search.json"

// ProfileSource supplies the search viewport.
type ProfileSource interface {
	Current() region.Profile
}

// Client is a Google Maps engine search over SerpAPI.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	profile    ProfileSource
}

func NewClient(apiKey string, profile ProfileSource, timeout time.Duration) *Client {
	return &Client{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
		profile:    profile,
	}
}

type gpsCoordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type placeResult struct {
	Title          string          `json:"title"`
	Address        string          `json:"address"`
	GPSCoordinates *gpsCoordinates `json:"gps_coordinates"`
	PlaceIDSearch  string          `json:"place_id_search"`
	Links          struct {
		PlaceResults string `json:"place_results"`
	} `json:"links"`
}

type searchResponse struct {
	Error        string        `json:"error"`
	PlaceResults *placeResult  `json:"place_results"`
	LocalResults []placeResult `json:"local_results"`
}

func (c *Client) Name() string { return "serpapi" }

// SearchPlace prefers a single place_results answer over the first local result.
func (c *Client) SearchPlace(ctx context.Context, q *entity.LocationQuery) (*entity.PlaceResult, error) {
	if c.APIKey == "" {
		return nil, repository.ErrNotConfigured
	}
	query := q.SearchText()

	out, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}

	switch {
	case out.PlaceResults != nil:
		return toPlace(*out.PlaceResults, out.PlaceResults.PlaceIDSearch, query, q.Location, entity.SourceSerpAPIPlaces), nil
	case len(out.LocalResults) > 0:
		first := out.LocalResults[0]
		return toPlace(first, first.Links.PlaceResults, query, q.Location, entity.SourceSerpAPILocal), nil
	}
	return nil, repository.ErrNoResult
}

func (c *Client) search(ctx context.Context, query string) (*searchResponse, error) {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", query)
	params.Set("type", "search")
	params.Set("api_key", c.APIKey)
	if c.profile != nil {
		params.Set("ll", viewport(c.profile.Current().SearchCenter))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("serpapi read: %w", err)
	}
	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("serpapi decode (status %d): %w", resp.StatusCode, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", repository.ErrProviderRejected, out.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: unexpected status %d", resp.StatusCode)
	}
	return &out, nil
}

func toPlace(p placeResult, link, query, location string, source entity.Source) *entity.PlaceResult {
	name := p.Title
	if name == "" {
		name = query
	}
	address := p.Address
	if address == "" {
		address = location
	}
	result := &entity.PlaceResult{
		Name:    name,
		Address: address,
		MapsURL: link,
		Source:  source,
	}
	if c := p.GPSCoordinates; c != nil && c.Latitude != nil && c.Longitude != nil {
		result.Lat, result.Lon = c.Latitude, c.Longitude
		if result.MapsURL == "" {
			result.MapsURL = mapsurl.Search(name, *c.Latitude, *c.Longitude)
		}
	}
	return result
}

func viewport(c region.SearchCenter) string {
	return "@" + strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," +
		strconv.Itoa(c.Zoom) + "z"
}

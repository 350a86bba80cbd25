package googlemaps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/mapsurl"
)

const (
	searchFieldMask  = "places.displayName,places.formattedAddress,places.location,places.googleMapsUri,places.id"
	detailsFieldMask = "displayName,formattedAddress,location,googleMapsUri"
)

type localizedText struct {
	Text string `json:"text"`
}

type latLng struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type place struct {
	ID               string        `json:"id"`
	DisplayName      localizedText `json:"displayName"`
	FormattedAddress string        `json:"formattedAddress"`
	Location         *latLng       `json:"location"`
	GoogleMapsURI    string        `json:"googleMapsUri"`
	Error            *apiError     `json:"error"`
}

type searchTextRequest struct {
	TextQuery    string `json:"textQuery"`
	LanguageCode string `json:"languageCode,omitempty"`
	RegionCode   string `json:"regionCode,omitempty"`
}

type searchTextResponse struct {
	Places []place   `json:"places"`
	Error  *apiError `json:"error"`
}

// Name implements repository.PlaceSearcher.
func (c *Client) Name() string { return "google_places" }

// SearchPlace runs a Places v1 text search and returns the first place.
func (c *Client) SearchPlace(ctx context.Context, q *entity.LocationQuery) (*entity.PlaceResult, error) {
	if c.APIKey == "" {
		return nil, repository.ErrNotConfigured
	}
	query := q.SearchText()

	payload, err := json.Marshal(searchTextRequest{
		TextQuery:    query,
		LanguageCode: c.LanguageCode,
		RegionCode:   c.RegionCode,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.placesURL()+"/places:searchText", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, searchFieldMask)

	var out searchTextResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("places text search: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrProviderRejected, out.Error.Message)
	}
	if len(out.Places) == 0 {
		return nil, repository.ErrNoResult
	}

	first := out.Places[0]
	if first.Location == nil || first.Location.Latitude == nil || first.Location.Longitude == nil {
		return nil, fmt.Errorf("places text search: first place %q has no location", first.ID)
	}
	lat, lon := *first.Location.Latitude, *first.Location.Longitude

	name := first.DisplayName.Text
	if name == "" {
		name = query
	}
	address := first.FormattedAddress
	if address == "" {
		address = q.Location
	}
	mapsURL := first.GoogleMapsURI
	if mapsURL == "" {
		mapsURL = mapsurl.Search(name, lat, lon)
	}

	return &entity.PlaceResult{
		Name:    name,
		Address: address,
		Lat:     entity.Float(lat),
		Lon:     entity.Float(lon),
		MapsURL: mapsURL,
		Source:  entity.SourceGoogleMaps,
	}, nil
}

// PlaceDetails implements repository.PlaceDetailer. Coordinates may be absent.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*entity.PlaceResult, error) {
	if c.APIKey == "" {
		return nil, repository.ErrNotConfigured
	}
	req, err := http.NewRequest(http.MethodGet, c.placesURL()+"/places/"+url.PathEscape(placeID), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, detailsFieldMask)

	var out place
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("place details %s: %w", placeID, err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrProviderRejected, out.Error.Message)
	}

	result := &entity.PlaceResult{
		Name:    out.DisplayName.Text,
		Address: out.FormattedAddress,
		MapsURL: out.GoogleMapsURI,
		Source:  entity.SourcePlaceID,
	}
	if out.Location != nil {
		result.Lat, result.Lon = out.Location.Latitude, out.Location.Longitude
	}
	return result, nil
}

func (c *Client) setHeaders(req *http.Request, fieldMask string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.APIKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/delivery/http/response"
	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/usecase"
	"github.com/user/reel-locator/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

type fakeLocator struct {
	res *entity.Resolution
	url string
}

func (f *fakeLocator) Locate(_ context.Context, reelURL string) *entity.Resolution {
	f.url = reelURL
	return f.res
}

type fakeLocations struct {
	saveErr   error
	nearby    []*entity.LocationRecord
	nearbyErr error
	count     int64
	countErr  error

	savedURL string
	radius   float64
}

func (f *fakeLocations) Save(_ context.Context, url string, data entity.LocationData) (*entity.LocationRecord, error) {
	f.savedURL = url
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &entity.LocationRecord{ID: "01ABC", InstagramURL: url, Location: data}, nil
}

func (f *fakeLocations) Nearby(_ context.Context, maxKm float64) ([]*entity.LocationRecord, error) {
	f.radius = maxKm
	return f.nearby, f.nearbyErr
}

func (f *fakeLocations) Count(context.Context) (int64, error) { return f.count, f.countErr }

func (f *fakeLocations) ReferencePoint() entity.ReferencePoint {
	return entity.ReferencePoint{Lat: 10.0466152, Lon: 76.3341462, Label: "TinkerSpace, Kochi, Kerala"}
}

func newTestHandler(loc *fakeLocator, locs *fakeLocations) *Handler {
	if loc == nil {
		loc = &fakeLocator{}
	}
	if locs == nil {
		locs = &fakeLocations{}
	}
	h := NewHandler(loc, locs, Diagnostics{Providers: map[string]bool{"google_maps": true, "serpapi": false}, EntityTagger: "gazetteer"}, zap.NewNop())
	h.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return h
}

func TestStatusFor(t *testing.T) {
	tests := map[entity.Source]int{
		entity.SourceValidationError:     400,
		entity.SourceRequestError:        400,
		entity.SourceExtractionFailed:    422,
		entity.SourceNoLocationFound:     422,
		entity.SourceCoordinatesNotFound: 422,
		entity.SourceShortcutError:       422,
		entity.SourceProcessingError:     500,
		entity.SourceServerError:         500,
		entity.SourceGoogleMaps:          200,
		entity.SourceGeocoding:           200,
		entity.SourcePlaceIDFallback:     200,
		entity.SourcePlaceIDError:        200,
	}
	for source, want := range tests {
		if got := StatusFor(source); got != want {
			t.Errorf("StatusFor(%s) = %d, want %d", source, got, want)
		}
	}
}

func TestHandleGetLocation(t *testing.T) {
	loc := &fakeLocator{res: &entity.Resolution{
		LocationText: "Found: Dhe Puttu",
		Lat:          entity.Float(10.02),
		Lon:          entity.Float(76.31),
		MapsURL:      entity.String("https://www.google.com/maps/search/Dhe%20Puttu/@10.02,76.31,17z"),
		Source:       entity.SourceGoogleMaps,
		Address:      entity.String("Edappally, Kochi"),
	}}
	h := newTestHandler(loc, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/get_location", strings.NewReader(`{"reel_url":"https://www.instagram.com/reel/A/"}`))
	h.HandleGetLocation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc.url != "https://www.instagram.com/reel/A/" {
		t.Fatalf("locator got %q", loc.url)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["source"] != "google_maps_api" || body["lat"] != 10.02 {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["error"]; ok {
		t.Fatal("error field should be omitted on success")
	}
}

func TestHandleGetLocationFailureStatus(t *testing.T) {
	h := newTestHandler(&fakeLocator{res: &entity.Resolution{
		LocationText: "No location information found in reel description",
		Error:        "no location",
		Source:       entity.SourceNoLocationFound,
	}}, nil)

	rec := httptest.NewRecorder()
	h.HandleGetLocation(rec, httptest.NewRequest(http.MethodPost, "/get_location", strings.NewReader(`{"reel_url":"x"}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["lat"] != nil || body["maps_url"] != nil {
		t.Fatalf("expected null coordinates, got %v", body)
	}
}

func TestHandleGetLocationBadJSON(t *testing.T) {
	loc := &fakeLocator{}
	h := newTestHandler(loc, nil)

	rec := httptest.NewRecorder()
	h.HandleGetLocation(rec, httptest.NewRequest(http.MethodPost, "/get_location", strings.NewReader("not json")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"source":"request_error"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if loc.url != "" {
		t.Fatal("locator should not be called")
	}
}

func TestHandleSaveLocation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		saveErr error
		want    int
		wantMsg string
	}{
		{"ok", `{"instagram_url":"https://www.instagram.com/reel/A/","location_data":{"lat":10,"lon":76}}`, nil, 200, `"id":"01ABC"`},
		{"bad json", `{`, nil, 400, "Invalid data format"},
		{"missing url", `{"location_data":{}}`, nil, 400, "Invalid data format"},
		{"missing data", `{"instagram_url":"u"}`, nil, 400, "Invalid data format"},
		{"invalid record", `{"instagram_url":" ","location_data":{}}`, usecase.ErrInvalidRecord, 400, "Invalid data format"},
		{"store failure", `{"instagram_url":"u","location_data":{}}`, errors.New("disk full"), 500, "Failed to save to database"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(nil, &fakeLocations{saveErr: tt.saveErr})
			rec := httptest.NewRecorder()
			h.HandleSaveLocation(rec, httptest.NewRequest(http.MethodPost, "/save_location", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Fatalf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestHandleNearbyLocations(t *testing.T) {
	locs := &fakeLocations{nearby: []*entity.LocationRecord{
		{InstagramURL: "https://www.instagram.com/reel/A/", Location: entity.LocationData{DistanceKm: entity.Float(1.5)}},
	}}
	h := newTestHandler(nil, locs)

	rec := httptest.NewRecorder()
	h.HandleNearbyLocations(rec, httptest.NewRequest(http.MethodGet, "/get_nearby_locations?max_distance=10", nil))
	if rec.Code != 200 || locs.radius != 10 {
		t.Fatalf("status = %d radius = %v", rec.Code, locs.radius)
	}
	var out []response.NearbyLocation
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || len(out) != 1 {
		t.Fatalf("out = %+v, %v", out, err)
	}
	if *out[0].LocationData.DistanceKm != 1.5 {
		t.Fatalf("distance = %v", *out[0].LocationData.DistanceKm)
	}
}

func TestHandleNearbyDefaultsAndErrors(t *testing.T) {
	for _, q := range []string{"", "?max_distance=abc", "?max_distance=NaN"} {
		locs := &fakeLocations{}
		rec := httptest.NewRecorder()
		newTestHandler(nil, locs).HandleNearbyLocations(rec, httptest.NewRequest(http.MethodGet, "/get_nearby_locations"+q, nil))
		if locs.radius != usecase.DefaultNearbyRadiusKm {
			t.Fatalf("%q: radius = %v", q, locs.radius)
		}
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Fatalf("%q: body = %s", q, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	newTestHandler(nil, &fakeLocations{nearbyErr: usecase.ErrInvalidRadius}).
		HandleNearbyLocations(rec, httptest.NewRequest(http.MethodGet, "/get_nearby_locations?max_distance=-1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	newTestHandler(nil, &fakeLocations{nearbyErr: errors.New("db gone")}).
		HandleNearbyLocations(rec, httptest.NewRequest(http.MethodGet, "/get_nearby_locations", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleTest(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(nil, &fakeLocations{count: 7}).HandleTest(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	var out response.TestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "working" || out.StoredLocations != 7 || out.EntityTagger != "gazetteer" {
		t.Fatalf("out = %+v", out)
	}
	if !out.APIsConfigured["google_maps"] || out.APIsConfigured["serpapi"] {
		t.Fatalf("apis = %v", out.APIsConfigured)
	}
	if out.YourPosition.Label != "TinkerSpace, Kochi, Kerala" || !out.Timestamp.Equal(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("out = %+v", out)
	}

	rec = httptest.NewRecorder()
	newTestHandler(nil, &fakeLocations{countErr: errors.New("x")}).HandleTest(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	if !strings.Contains(rec.Body.String(), `"stored_locations":-1`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

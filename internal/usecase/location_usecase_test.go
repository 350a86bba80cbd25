package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/geo"
)

var testReference = entity.ReferencePoint{Lat: 10.0466152, Lon: 76.3341462, Label: "TinkerSpace, Kochi, Kerala"}

func newLocationService(store *memoryStore, pub *fakePublisher) *locationUseCase {
	var publisher repository.LocationPublisher
	if pub != nil {
		publisher = pub
	}
	svc := NewLocationService(store, publisher, testReference, zap.NewNop()).(*locationUseCase)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSaveComputesDistance(t *testing.T) {
	store := &memoryStore{}
	pub := &fakePublisher{}
	svc := newLocationService(store, pub)

	rec, err := svc.Save(context.Background(), " https://www.instagram.com/reel/abc/ ", entity.LocationData{
		Name: "Lulu Mall",
		Lat:  entity.Float(10.0271),
		Lon:  entity.Float(76.3080),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID == "" || rec.InstagramURL != "https://www.instagram.com/reel/abc/" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Location.DistanceKm == nil {
		t.Fatal("distance not computed")
	}
	want := geo.DistanceKm(10.0466152, 76.3341462, 10.0271, 76.3080)
	if math.Abs(*rec.Location.DistanceKm-want) > 1e-9 {
		t.Fatalf("distance = %v, want %v", *rec.Location.DistanceKm, want)
	}
	if rec.Geohash == "" {
		t.Fatal("geohash not set")
	}
	if !rec.Timestamp.Equal(svc.now()) {
		t.Fatalf("timestamp = %v", rec.Timestamp)
	}
	if len(pub.published) != 1 || pub.published[0] != rec.ID {
		t.Fatalf("published = %v", pub.published)
	}
}

func TestSaveWithoutCoordinates(t *testing.T) {
	store := &memoryStore{}
	svc := newLocationService(store, nil)

	// A client-supplied distance is never trusted.
	rec, err := svc.Save(context.Background(), "https://www.instagram.com/reel/x/", entity.LocationData{
		Name:       "Somewhere",
		Lat:        entity.Float(10),
		DistanceKm: entity.Float(1),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.Location.DistanceKm != nil || rec.Geohash != "" {
		t.Fatalf("record without both coordinates must have no distance: %+v", rec)
	}

	nearby, _ := svc.Nearby(context.Background(), math.Inf(1))
	if len(nearby) != 0 {
		t.Fatalf("record without distance returned by Nearby")
	}
}

func TestSaveRejectsEmptyURL(t *testing.T) {
	svc := newLocationService(&memoryStore{}, nil)
	if _, err := svc.Save(context.Background(), "  ", entity.LocationData{}); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestSaveIgnoresPublishFailure(t *testing.T) {
	store := &memoryStore{}
	svc := newLocationService(store, &fakePublisher{err: errors.New("broker down")})

	if _, err := svc.Save(context.Background(), "https://www.instagram.com/reel/y/", entity.LocationData{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n, _ := store.Count(context.Background()); n != 1 {
		t.Fatalf("count = %d", n)
	}
}

func TestSaveAssignsUniqueIDs(t *testing.T) {
	store := &memoryStore{}
	svc := newLocationService(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Save(context.Background(), "https://www.instagram.com/reel/z/", entity.LocationData{}); err != nil {
				t.Errorf("Save: %v", err)
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, r := range store.records {
		if seen[r.ID] {
			t.Fatalf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
	if len(seen) != 50 {
		t.Fatalf("stored %d records, want 50", len(seen))
	}
}

func TestNearbyOrderingAndRadius(t *testing.T) {
	store := &memoryStore{}
	svc := newLocationService(store, nil)
	ctx := context.Background()

	points := []struct{ lat, lon float64 }{
		{10.5276, 76.2144}, // Thrissur, ~55 km
		{10.0271, 76.3080}, // Lulu Mall, ~3.5 km
		{10.0466152, 76.3341462},
		{9.9658, 76.2421}, // Fort Kochi, ~13 km
	}
	for _, pt := range points {
		if _, err := svc.Save(ctx, "https://www.instagram.com/reel/p/", entity.LocationData{
			Lat: entity.Float(pt.lat),
			Lon: entity.Float(pt.lon),
		}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := svc.Nearby(ctx, DefaultNearbyRadiusKm)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if *got[i-1].Location.DistanceKm > *got[i].Location.DistanceKm {
			t.Fatalf("not sorted by distance at %d", i)
		}
	}

	zero, _ := svc.Nearby(ctx, 0)
	if len(zero) != 1 || *zero[0].Location.DistanceKm != 0 {
		t.Fatalf("radius 0 should return only the reference point record, got %d", len(zero))
	}

	if _, err := svc.Nearby(ctx, -1); !errors.Is(err, ErrInvalidRadius) {
		t.Fatalf("err = %v, want ErrInvalidRadius", err)
	}
}

func TestReferencePoint(t *testing.T) {
	rp := newLocationService(&memoryStore{}, nil).ReferencePoint()
	if rp.Lat != 10.0466152 || rp.Lon != 76.3341462 || rp.Label == "" {
		t.Fatalf("unexpected reference point %+v", rp)
	}
}

func TestNearbyDistancesMatchReportedReference(t *testing.T) {
	ctx := context.Background()
	svc := newLocationService(&memoryStore{}, nil)

	if _, err := svc.Save(ctx, "https://www.instagram.com/reel/near/", entity.LocationData{
		Lat: entity.Float(10.05),
		Lon: entity.Float(76.34),
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ref := svc.ReferencePoint()
	if ref != testReference {
		t.Fatalf("reference = %+v, want %+v", ref, testReference)
	}
	got, err := svc.Nearby(ctx, 50)
	if err != nil || len(got) != 1 {
		t.Fatalf("Nearby = %v, %v", got, err)
	}
	loc := got[0].Location
	want := geo.DistanceKm(ref.Lat, ref.Lon, *loc.Lat, *loc.Lon)
	if math.Abs(*loc.DistanceKm-want) > 1e-9 {
		t.Fatalf("stored distance %v, distance from reported reference %v", *loc.DistanceKm, want)
	}
}

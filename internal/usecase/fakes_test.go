package usecase

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/repository"
	"github.com/user/reel-locator/pkg/metrics"
	"github.com/user/reel-locator/pkg/region"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

type fakeStrategy struct {
	name    string
	caption string
	err     error
	panics  bool
	calls   int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) FetchCaption(context.Context, string) (string, error) {
	f.calls++
	if f.panics {
		panic("strategy exploded")
	}
	return f.caption, f.err
}

type fakeTagger struct {
	ents []entity.NamedEntity
	err  error
}

func (f fakeTagger) Entities(context.Context, string) ([]entity.NamedEntity, error) {
	return f.ents, f.err
}

type fakeSearcher struct {
	name    string
	result  *entity.PlaceResult
	err     error
	queries []string
}

func (f *fakeSearcher) Name() string { return f.name }

func (f *fakeSearcher) SearchPlace(_ context.Context, q *entity.LocationQuery) (*entity.PlaceResult, error) {
	f.queries = append(f.queries, q.SearchText())
	return f.result, f.err
}

type fakeGeocoder struct {
	name      string
	coords    *entity.Coordinates
	err       error
	addresses []string
}

func (f *fakeGeocoder) Name() string { return f.name }

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (*entity.Coordinates, error) {
	f.addresses = append(f.addresses, address)
	return f.coords, f.err
}

type fakeDetailer struct {
	place *entity.PlaceResult
	err   error
	ids   []string
}

func (f *fakeDetailer) PlaceDetails(_ context.Context, placeID string) (*entity.PlaceResult, error) {
	f.ids = append(f.ids, placeID)
	return f.place, f.err
}

type fakeCache struct {
	entries   map[string]*entity.Resolution
	getErr    error
	puts      int
	forgotten []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*entity.Resolution)}
}

func (f *fakeCache) Get(_ context.Context, url string) (*entity.Resolution, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if res, ok := f.entries[url]; ok {
		return res, nil
	}
	return nil, repository.ErrCacheMiss
}

func (f *fakeCache) Put(_ context.Context, url string, res *entity.Resolution, _ time.Duration) error {
	f.puts++
	f.entries[url] = res
	return nil
}

func (f *fakeCache) Forget(_ context.Context, url string) error {
	f.forgotten = append(f.forgotten, url)
	delete(f.entries, url)
	return nil
}

type memoryStore struct {
	mu      sync.Mutex
	records []*entity.LocationRecord
}

func (s *memoryStore) Append(_ context.Context, r *entity.LocationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *memoryStore) Nearby(_ context.Context, maxKm float64) ([]*entity.LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.LocationRecord
	for _, r := range s.records {
		if d := r.Location.DistanceKm; d != nil && *d <= maxKm {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Location.DistanceKm < *out[j].Location.DistanceKm
	})
	return out, nil
}

func (s *memoryStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

type fakePublisher struct {
	err       error
	published []string
}

func (f *fakePublisher) Publish(_ context.Context, r *entity.LocationRecord) error {
	f.published = append(f.published, r.ID)
	return f.err
}

func defaultProfiles() *region.Store {
	return region.NewStore(region.Default())
}

package usecases_test

import (
	"context"
	"sync"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

// --- Mock providers ---

type mockRoutingProvider struct {
	mu      sync.Mutex
	calls   int
	fetchFn func(ctx context.Context, origin, dest domain.Coordinate, profile string) (*domain.RouteResult, error)
}

func (m *mockRoutingProvider) FetchRoute(ctx context.Context, origin, dest domain.Coordinate, profile string) (*domain.RouteResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fetchFn != nil {
		return m.fetchFn(ctx, origin, dest, profile)
	}
	return &domain.RouteResult{Geometry: domain.Polyline{origin, dest}}, nil
}

func (m *mockRoutingProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockGeocodingProvider struct {
	mu        sync.Mutex
	calls     int
	addresses []string
	geocodeFn func(ctx context.Context, address string) (*domain.GeocodeResult, error)
}

func (m *mockGeocodingProvider) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	m.mu.Lock()
	m.calls++
	m.addresses = append(m.addresses, address)
	m.mu.Unlock()
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, address)
	}
	return &domain.GeocodeResult{Location: domain.Coordinate{Lat: 1, Lng: 2}, DisplayName: address}, nil
}

// --- Mock cache ---

// mockCache is a plain map with no expiry; tests simulate TTL expiry by
// deleting keys.
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

func (m *mockCache) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *mockCache) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	return out
}

// --- Mock repositories ---

type mockServiceRepo struct {
	listFn    func(ctx context.Context, typeFilter string) ([]domain.Service, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Service, error)
	createFn  func(ctx context.Context, s *domain.Service) error
}

func (m *mockServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}
func (m *mockServiceRepo) Update(ctx context.Context, s *domain.Service) error { return nil }
func (m *mockServiceRepo) Delete(ctx context.Context, id string) error         { return nil }
func (m *mockServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockServiceRepo) List(ctx context.Context, typeFilter string) ([]domain.Service, error) {
	if m.listFn != nil {
		return m.listFn(ctx, typeFilter)
	}
	return nil, nil
}

type mockRouteRepo struct {
	created    []*domain.Route
	getByIDFn  func(ctx context.Context, id, userID string) (*domain.Route, error)
	listByUsFn func(ctx context.Context, userID string) ([]domain.Route, error)
}

func (m *mockRouteRepo) Create(ctx context.Context, r *domain.Route) error {
	r.ID = "route-1"
	m.created = append(m.created, r)
	return nil
}
func (m *mockRouteRepo) GetByID(ctx context.Context, id, userID string) (*domain.Route, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, userID)
	}
	return nil, domain.ErrNotFound
}
func (m *mockRouteRepo) ListByUser(ctx context.Context, userID string) ([]domain.Route, error) {
	if m.listByUsFn != nil {
		return m.listByUsFn(ctx, userID)
	}
	return nil, nil
}

type mockHistoryRepo struct {
	created    []*domain.SearchHistory
	listByUsFn func(ctx context.Context, userID string) ([]domain.SearchHistory, error)
	deleteFn   func(ctx context.Context, id, userID string) error
}

func (m *mockHistoryRepo) Create(ctx context.Context, h *domain.SearchHistory) error {
	h.ID = "search-1"
	m.created = append(m.created, h)
	return nil
}
func (m *mockHistoryRepo) ListByUser(ctx context.Context, userID string) ([]domain.SearchHistory, error) {
	if m.listByUsFn != nil {
		return m.listByUsFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockHistoryRepo) Delete(ctx context.Context, id, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

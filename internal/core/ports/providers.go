package ports

import (
	"context"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

// RoutingProvider fetches a travel route between two points. Implementations
// own the provider's axis-order convention; callers always pass lat/lng.
type RoutingProvider interface {
	// FetchRoute returns the route geometry plus totals for the given
	// travel profile (e.g. "driving-car"). A transport or non-success
	// failure is reported as domain.ErrProviderUnavailable.
	FetchRoute(ctx context.Context, origin, dest domain.Coordinate, profile string) (*domain.RouteResult, error)
}

// GeocodingProvider resolves a free-text address to coordinates.
type GeocodingProvider interface {
	// Geocode returns the single best match for the address, or
	// domain.ErrNotFound when the provider yields zero results.
	Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error)
}

// CacheService is a key-value store with TTL-expiry semantics. Expired
// entries behave as misses. Get returns domain.ErrCacheMiss for absent or
// expired keys.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

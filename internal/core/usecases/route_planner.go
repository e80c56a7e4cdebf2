package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/core/ports"
	"github.com/RichBen03/SafeRoute/internal/pkg/geospatial"
	"github.com/RichBen03/SafeRoute/internal/pkg/metrics"
)

// Corridor radius bounds for route creation, in kilometers.
const (
	minCorridorRadiusKm = 0
	maxCorridorRadiusKm = 10
)

// RoutePlanner fetches travel routes through a TTL cache, matches registered
// services along the route corridor, and persists the result.
type RoutePlanner struct {
	provider ports.RoutingProvider
	cache    ports.CacheService
	services ports.ServiceRepository
	routes   ports.RouteRepository

	profile    string
	ttlSeconds int
	stride     int

	// Collapses concurrent fetches for the same cache key into a single
	// upstream call.
	flight singleflight.Group
}

// NewRoutePlanner creates a RoutePlanner. profile names the travel mode sent
// to the routing provider, ttlSeconds the route cache TTL, and stride the
// corridor sampling stride in vertices.
func NewRoutePlanner(
	provider ports.RoutingProvider,
	cache ports.CacheService,
	services ports.ServiceRepository,
	routes ports.RouteRepository,
	profile string,
	ttlSeconds int,
	stride int,
) *RoutePlanner {
	if stride < 1 {
		stride = geospatial.DefaultStride
	}
	return &RoutePlanner{
		provider:   provider,
		cache:      cache,
		services:   services,
		routes:     routes,
		profile:    profile,
		ttlSeconds: ttlSeconds,
		stride:     stride,
	}
}

// routeCacheKey derives the cache key for an origin/destination/profile
// triple. The key is order-sensitive: swapping origin and destination yields
// a different key even when the provider would return a mirrored route. The
// fixed %.6f format keeps identical inputs serializing identically.
func routeCacheKey(origin, dest domain.Coordinate, profile string) string {
	return fmt.Sprintf("route:%.6f_%.6f_%.6f_%.6f_%s",
		origin.Lat, origin.Lng, dest.Lat, dest.Lng, profile)
}

// GetOrFetch returns the route for origin→dest, consulting the cache first.
// On a miss the routing provider is called once per key regardless of how
// many callers race on it, and the result is stored with the configured
// TTL. Provider failures propagate unchanged and are never cached.
func (p *RoutePlanner) GetOrFetch(ctx context.Context, origin, dest domain.Coordinate, profile string) (*domain.RouteResult, error) {
	key := routeCacheKey(origin, dest, profile)

	if data, err := p.cache.Get(ctx, key); err == nil {
		var cached domain.RouteResult
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.CacheHits.WithLabelValues("route").Inc()
			return &cached, nil
		}
		slog.Warn("route cache entry is corrupt, refetching", "key", key)
	}
	metrics.CacheMisses.WithLabelValues("route").Inc()

	result, err, _ := p.flight.Do(key, func() (interface{}, error) {
		route, err := p.provider.FetchRoute(ctx, origin, dest, profile)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(route); err == nil {
			if err := p.cache.Set(ctx, key, data, p.ttlSeconds); err != nil {
				slog.Warn("route cache write failed", "key", key, "error", err)
			}
		}
		return route, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.RouteResult), nil
}

// Create fetches a route, matches every registered service within radiusKm
// of the corridor, and persists route plus matches in one transaction.
func (p *RoutePlanner) Create(ctx context.Context, userID string, origin, dest domain.Coordinate, radiusKm float64) (*domain.Route, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	if !origin.Valid() || !dest.Valid() {
		return nil, fmt.Errorf("origin and destination must be valid lat/lng pairs: %w", domain.ErrInvalidInput)
	}
	if radiusKm <= minCorridorRadiusKm || radiusKm > maxCorridorRadiusKm {
		return nil, fmt.Errorf("radius_km must be in (0, %d]: %w", maxCorridorRadiusKm, domain.ErrInvalidInput)
	}

	result, err := p.GetOrFetch(ctx, origin, dest, p.profile)
	if err != nil {
		return nil, err
	}

	candidates, err := p.services.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	var matches []domain.ServiceMatch
	for _, svc := range candidates {
		d := geospatial.ClosestDistanceToPath(result.Geometry, svc.Location, p.stride)
		if d <= radiusKm {
			matches = append(matches, domain.ServiceMatch{Service: svc, DistanceKm: d})
			metrics.CorridorMatches.Inc()
		}
	}

	route := &domain.Route{
		UserID:      userID,
		Origin:      origin,
		Destination: dest,
		DistanceKm:  result.DistanceKm,
		DurationMin: result.DurationMin,
		Geometry:    result.Geometry,
		Steps:       result.Steps,
		Services:    matches,
	}
	if err := p.routes.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("persist route: %w", err)
	}

	slog.Info("route created",
		"route_id", route.ID,
		"distance_km", route.DistanceKm,
		"matched_services", len(matches))
	return route, nil
}

// Get returns a route by id, scoped to its owner.
func (p *RoutePlanner) Get(ctx context.Context, id, userID string) (*domain.Route, error) {
	if id == "" || userID == "" {
		return nil, fmt.Errorf("route id and user id are required: %w", domain.ErrInvalidInput)
	}
	return p.routes.GetByID(ctx, id, userID)
}

// ListByUser returns the user's routes, newest first.
func (p *RoutePlanner) ListByUser(ctx context.Context, userID string) ([]domain.Route, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	return p.routes.ListByUser(ctx, userID)
}

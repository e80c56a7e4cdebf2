package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/core/ports"
	"github.com/RichBen03/SafeRoute/internal/pkg/metrics"
)

// GeocodeService resolves free-text addresses through a TTL cache.
type GeocodeService struct {
	provider   ports.GeocodingProvider
	cache      ports.CacheService
	ttlSeconds int
}

// NewGeocodeService creates a GeocodeService with the given cache TTL.
func NewGeocodeService(provider ports.GeocodingProvider, cache ports.CacheService, ttlSeconds int) *GeocodeService {
	return &GeocodeService{provider: provider, cache: cache, ttlSeconds: ttlSeconds}
}

// normalizeAddress trims, collapses whitespace runs to single spaces, and
// lowercases, so "123  Main St " and "123 main st" share a cache entry.
func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Resolve returns the single best match for the address. The normalized
// form keys the cache; the original text goes to the provider on a miss.
// Zero provider results surface as domain.ErrNotFound and are never cached,
// so a transient outage cannot poison the cache with an absence.
func (g *GeocodeService) Resolve(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	normalized := normalizeAddress(address)
	if normalized == "" {
		return nil, fmt.Errorf("address is required: %w", domain.ErrInvalidInput)
	}

	key := "geocode:" + normalized
	if data, err := g.cache.Get(ctx, key); err == nil {
		var cached domain.GeocodeResult
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.CacheHits.WithLabelValues("geocode").Inc()
			return &cached, nil
		}
		slog.Warn("geocode cache entry is corrupt, refetching", "key", key)
	}
	metrics.CacheMisses.WithLabelValues("geocode").Inc()

	result, err := g.provider.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := g.cache.Set(ctx, key, data, g.ttlSeconds); err != nil {
			slog.Warn("geocode cache write failed", "key", key, "error", err)
		}
	}
	return result, nil
}

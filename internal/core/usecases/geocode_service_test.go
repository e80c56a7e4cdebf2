package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/core/usecases"
)

func TestGeocodeService_EquivalentAddressesShareACacheEntry(t *testing.T) {
	provider := &mockGeocodingProvider{
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			return &domain.GeocodeResult{
				Location:    domain.Coordinate{Lat: 40.0, Lng: -75.0},
				DisplayName: "123 Main St, Philadelphia",
			}, nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewGeocodeService(provider, cache, 604800)

	first, err := svc.Resolve(context.Background(), "123  Main St ")
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := svc.Resolve(context.Background(), "123 main st")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1 (normalized key shared)", provider.calls)
	}
	if cache.len() != 1 {
		t.Errorf("cache holds %d entries, want 1: %v", cache.len(), cache.keys())
	}
	if first.DisplayName != second.DisplayName {
		t.Error("cache returned a different result")
	}

	// The provider sees the original, non-normalized text.
	if provider.addresses[0] != "123  Main St " {
		t.Errorf("provider got %q, want the original address", provider.addresses[0])
	}

	// The entry carries the configured TTL.
	for _, ttl := range cache.ttls {
		if ttl != 604800 {
			t.Errorf("cache ttl = %d, want 604800", ttl)
		}
	}
}

func TestGeocodeService_ZeroResultsAreNotCached(t *testing.T) {
	provider := &mockGeocodingProvider{
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			return nil, fmt.Errorf("no results: %w", domain.ErrNotFound)
		},
	}
	cache := newMockCache()
	svc := usecases.NewGeocodeService(provider, cache, 604800)

	for i := 0; i < 2; i++ {
		_, err := svc.Resolve(context.Background(), "nowhere at all")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}

	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2 (absence is not cached)", provider.calls)
	}
	if cache.len() != 0 {
		t.Errorf("absence was cached: %v", cache.keys())
	}
}

func TestGeocodeService_ProviderFailureSurfacesDistinctly(t *testing.T) {
	provider := &mockGeocodingProvider{
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			return nil, fmt.Errorf("timeout: %w", domain.ErrProviderUnavailable)
		},
	}
	cache := newMockCache()
	svc := usecases.NewGeocodeService(provider, cache, 604800)

	_, err := svc.Resolve(context.Background(), "123 main st")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("provider failure must not look like a missing result")
	}
	if cache.len() != 0 {
		t.Errorf("failure was cached: %v", cache.keys())
	}
}

func TestGeocodeService_EmptyAddressRejected(t *testing.T) {
	svc := usecases.NewGeocodeService(&mockGeocodingProvider{}, newMockCache(), 604800)

	for _, address := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Resolve(context.Background(), address); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Resolve(%q) err = %v, want ErrInvalidInput", address, err)
		}
	}
}

package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/core/ports"
	"github.com/RichBen03/SafeRoute/internal/pkg/geospatial"
	"github.com/RichBen03/SafeRoute/internal/pkg/metrics"
)

// Point searches accept a looser radius than route corridors.
const maxSearchRadiusKm = 50

// DefaultSearchRadiusKm is used when the caller omits a radius.
const DefaultSearchRadiusKm = 5

// SearchService finds registered services around a point and records the
// search in the caller's history.
type SearchService struct {
	services ports.ServiceRepository
	history  ports.SearchHistoryRepository
}

// NewSearchService creates a SearchService.
func NewSearchService(services ports.ServiceRepository, history ports.SearchHistoryRepository) *SearchService {
	return &SearchService{services: services, history: history}
}

// searchNearby filters candidates by type (case-insensitive) and radius
// (inclusive boundary) and returns matches sorted ascending by distance,
// ties keeping input order. The input slice is never mutated; this is a
// plain linear scan over all candidates.
func searchNearby(candidates []domain.Service, center domain.Coordinate, radiusKm float64, typeFilter string) []domain.ServiceMatch {
	filter := strings.ToLower(typeFilter)

	var matches []domain.ServiceMatch
	for _, svc := range candidates {
		if filter != "" && strings.ToLower(string(svc.Type)) != filter {
			continue
		}
		d := geospatial.Distance(center, svc.Location)
		if d <= radiusKm {
			matches = append(matches, domain.ServiceMatch{Service: svc, DistanceKm: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	return matches
}

// Nearby finds services within radiusKm of center, optionally filtered by
// type, and persists the search with its results. query labels the history
// entry; when empty a label is generated.
func (s *SearchService) Nearby(ctx context.Context, userID string, center domain.Coordinate, radiusKm float64, typeFilter, query string) (*domain.SearchHistory, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	if !center.Valid() {
		return nil, fmt.Errorf("lat and lng must be valid coordinates: %w", domain.ErrInvalidInput)
	}
	if radiusKm <= 0 || radiusKm > maxSearchRadiusKm {
		return nil, fmt.Errorf("radius_km must be in (0, %d]: %w", maxSearchRadiusKm, domain.ErrInvalidInput)
	}
	if typeFilter != "" && !domain.KnownServiceType(typeFilter) {
		return nil, fmt.Errorf("unknown service type %q: %w", typeFilter, domain.ErrInvalidInput)
	}

	if query == "" {
		if typeFilter != "" {
			query = fmt.Sprintf("Nearby %s services within %gkm", strings.ToLower(typeFilter), radiusKm)
		} else {
			query = fmt.Sprintf("Nearby services within %gkm", radiusKm)
		}
	}

	candidates, err := s.services.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	matches := searchNearby(candidates, center, radiusKm, typeFilter)
	metrics.NearbyMatches.Add(float64(len(matches)))

	entry := &domain.SearchHistory{
		UserID:   userID,
		Query:    query,
		Center:   center,
		RadiusKm: radiusKm,
		Results:  matches,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("persist search: %w", err)
	}

	slog.Info("nearby search", "query", query, "results", len(matches))
	return entry, nil
}

// History returns the user's searches, newest first.
func (s *SearchService) History(ctx context.Context, userID string) ([]domain.SearchHistory, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	return s.history.ListByUser(ctx, userID)
}

// DeleteHistory removes one history entry, scoped to its owner.
func (s *SearchService) DeleteHistory(ctx context.Context, id, userID string) error {
	if id == "" || userID == "" {
		return fmt.Errorf("history id and user id are required: %w", domain.ErrInvalidInput)
	}
	return s.history.Delete(ctx, id, userID)
}

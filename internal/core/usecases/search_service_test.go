package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/core/usecases"
	"github.com/RichBen03/SafeRoute/internal/pkg/geospatial"
)

func fixedServices() []domain.Service {
	return []domain.Service{
		{ID: "h1", Name: "City Hospital", Type: domain.ServiceHospital, Location: domain.Coordinate{Lat: 0, Lng: 0.02}},
		{ID: "p1", Name: "Central Police", Type: domain.ServicePolice, Location: domain.Coordinate{Lat: 0, Lng: 0.01}},
		{ID: "h2", Name: "North Hospital", Type: domain.ServiceHospital, Location: domain.Coordinate{Lat: 0.5, Lng: 0}},
	}
}

func TestSearchService_Nearby_SortedAscendingWithinRadius(t *testing.T) {
	repo := &mockServiceRepo{
		listFn: func(ctx context.Context, typeFilter string) ([]domain.Service, error) {
			return fixedServices(), nil
		},
	}
	history := &mockHistoryRepo{}
	svc := usecases.NewSearchService(repo, history)

	center := domain.Coordinate{Lat: 0, Lng: 0}
	entry, err := svc.Nearby(context.Background(), "user-1", center, 5, "", "")
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}

	// h2 is ~55 km out; only p1 (~1.1 km) and h1 (~2.2 km) qualify.
	if len(entry.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(entry.Results))
	}
	if entry.Results[0].Service.ID != "p1" || entry.Results[1].Service.ID != "h1" {
		t.Errorf("results not ascending by distance: %s, %s",
			entry.Results[0].Service.ID, entry.Results[1].Service.ID)
	}
	for _, m := range entry.Results {
		if m.DistanceKm > 5 {
			t.Errorf("result %s outside radius: %v km", m.Service.ID, m.DistanceKm)
		}
	}
}

func TestSearchService_Nearby_RadiusBoundaryIsInclusive(t *testing.T) {
	target := domain.Service{ID: "edge", Type: domain.ServiceFire, Location: domain.Coordinate{Lat: 0, Lng: 0.1}}
	repo := &mockServiceRepo{
		listFn: func(ctx context.Context, typeFilter string) ([]domain.Service, error) {
			return []domain.Service{target}, nil
		},
	}
	svc := usecases.NewSearchService(repo, &mockHistoryRepo{})

	center := domain.Coordinate{Lat: 0, Lng: 0}
	exact := geospatial.Distance(center, target.Location)

	entry, err := svc.Nearby(context.Background(), "user-1", center, exact, "", "")
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(entry.Results) != 1 {
		t.Errorf("service exactly at the radius boundary was excluded")
	}
}

func TestSearchService_Nearby_TypeFilterCaseInsensitive(t *testing.T) {
	repo := &mockServiceRepo{
		listFn: func(ctx context.Context, typeFilter string) ([]domain.Service, error) {
			return fixedServices(), nil
		},
	}
	svc := usecases.NewSearchService(repo, &mockHistoryRepo{})

	entry, err := svc.Nearby(context.Background(), "user-1", domain.Coordinate{Lat: 0, Lng: 0}, 5, "HOSPITAL", "")
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(entry.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(entry.Results))
	}
	if entry.Results[0].Service.ID != "h1" {
		t.Errorf("got %s, want h1", entry.Results[0].Service.ID)
	}
}

func TestSearchService_Nearby_DoesNotMutateCandidates(t *testing.T) {
	candidates := fixedServices()
	repo := &mockServiceRepo{
		listFn: func(ctx context.Context, typeFilter string) ([]domain.Service, error) {
			return candidates, nil
		},
	}
	svc := usecases.NewSearchService(repo, &mockHistoryRepo{})

	if _, err := svc.Nearby(context.Background(), "user-1", domain.Coordinate{Lat: 0, Lng: 0}, 5, "", ""); err != nil {
		t.Fatalf("Nearby: %v", err)
	}

	want := fixedServices()
	for i := range want {
		if candidates[i].ID != want[i].ID {
			t.Fatalf("candidate slice was reordered at %d: %s", i, candidates[i].ID)
		}
	}
}

func TestSearchService_Nearby_GeneratesQueryLabel(t *testing.T) {
	repo := &mockServiceRepo{
		listFn: func(ctx context.Context, typeFilter string) ([]domain.Service, error) { return nil, nil },
	}
	history := &mockHistoryRepo{}
	svc := usecases.NewSearchService(repo, history)

	entry, err := svc.Nearby(context.Background(), "user-1", domain.Coordinate{Lat: 0, Lng: 0}, 2, "hospital", "")
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if entry.Query != "Nearby hospital services within 2km" {
		t.Errorf("query label = %q", entry.Query)
	}

	entry, err = svc.Nearby(context.Background(), "user-1", domain.Coordinate{Lat: 0, Lng: 0}, 5, "", "my own label")
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if entry.Query != "my own label" {
		t.Errorf("caller label overridden: %q", entry.Query)
	}

	if len(history.created) != 2 {
		t.Errorf("persisted %d searches, want 2", len(history.created))
	}
}

func TestSearchService_Nearby_RejectsBadInput(t *testing.T) {
	svc := usecases.NewSearchService(&mockServiceRepo{}, &mockHistoryRepo{})
	center := domain.Coordinate{Lat: 0, Lng: 0}

	cases := []struct {
		name       string
		userID     string
		center     domain.Coordinate
		radiusKm   float64
		typeFilter string
	}{
		{"missing user", "", center, 5, ""},
		{"zero radius", "user-1", center, 0, ""},
		{"radius too large", "user-1", center, 51, ""},
		{"bad coordinate", "user-1", domain.Coordinate{Lat: -91, Lng: 0}, 5, ""},
		{"unknown type", "user-1", center, 5, "bakery"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Nearby(context.Background(), tc.userID, tc.center, tc.radiusKm, tc.typeFilter, "")
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSearchService_DeleteHistory(t *testing.T) {
	deleted := ""
	history := &mockHistoryRepo{
		deleteFn: func(ctx context.Context, id, userID string) error {
			deleted = id + "/" + userID
			return nil
		},
	}
	svc := usecases.NewSearchService(&mockServiceRepo{}, history)

	if err := svc.DeleteHistory(context.Background(), "search-9", "user-1"); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}
	if deleted != "search-9/user-1" {
		t.Errorf("delete scoped wrong: %q", deleted)
	}

	if err := svc.DeleteHistory(context.Background(), "", "user-1"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

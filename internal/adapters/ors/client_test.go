package ors

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

const directionsBody = `{
	"features": [{
		"geometry": {"coordinates": [[-75.0, 40.0], [-75.05, 40.05], [-75.1, 40.1]]},
		"properties": {
			"summary": {"distance": 15000, "duration": 900},
			"segments": [{"steps": [{"instruction": "Head north"}, {"instruction": "Arrive"}]}]
		}
	}]
}`

func TestFetchRoute_ParsesGeoJSON(t *testing.T) {
	var gotAuth, gotStart, gotEnd string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		w.Write([]byte(directionsBody))
	}))
	defer srv.Close()

	client, err := New(srv.URL, "test-key", 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	origin := domain.Coordinate{Lat: 40.0, Lng: -75.0}
	dest := domain.Coordinate{Lat: 40.1, Lng: -75.1}
	route, err := client.FetchRoute(context.Background(), origin, dest, "driving-car")
	if err != nil {
		t.Fatalf("FetchRoute: %v", err)
	}

	if gotAuth != "test-key" {
		t.Errorf("Authorization = %q, want test-key", gotAuth)
	}
	// ORS wants lng-first.
	if gotStart != "-75.000000,40.000000" {
		t.Errorf("start = %q, want lng-first origin", gotStart)
	}
	if gotEnd != "-75.100000,40.100000" {
		t.Errorf("end = %q, want lng-first destination", gotEnd)
	}

	if len(route.Geometry) != 3 {
		t.Fatalf("geometry has %d vertices, want 3", len(route.Geometry))
	}
	// Geometry comes back lat/lng in path order.
	if route.Geometry[0] != (domain.Coordinate{Lat: 40.0, Lng: -75.0}) {
		t.Errorf("first vertex = %v, want lat/lng converted", route.Geometry[0])
	}
	if math.Abs(route.DistanceKm-15.0) > 1e-9 {
		t.Errorf("DistanceKm = %v, want 15 (meters converted)", route.DistanceKm)
	}
	if math.Abs(route.DurationMin-15.0) > 1e-9 {
		t.Errorf("DurationMin = %v, want 15 (seconds converted)", route.DurationMin)
	}
	if len(route.Steps) != 2 {
		t.Errorf("got %d steps, want 2", len(route.Steps))
	}
}

func TestFetchRoute_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, _ := New(srv.URL, "test-key", 5*time.Second)
	_, err := client.FetchRoute(context.Background(), domain.Coordinate{}, domain.Coordinate{}, "driving-car")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestFetchRoute_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	client, _ := New(srv.URL, "test-key", 5*time.Second)
	_, err := client.FetchRoute(context.Background(), domain.Coordinate{}, domain.Coordinate{}, "driving-car")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New("https://api.openrouteservice.org", "", time.Second); err == nil {
		t.Error("expected error for empty api key")
	}
}

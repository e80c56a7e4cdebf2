// Package ors implements ports.RoutingProvider against the OpenRouteService
// directions API.
package ors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/pkg/metrics"
)

// Client calls the ORS GeoJSON directions endpoint. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New creates an ORS client. timeout bounds each directions call.
func New(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("ors: api key is empty")
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}, nil
}

// directionsResponse mirrors the GeoJSON shape of /v2/directions/{profile}.
type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"` // meters
				Duration float64 `json:"duration"` // seconds
			} `json:"summary"`
			Segments []struct {
				Steps []json.RawMessage `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// FetchRoute fetches a route for the given travel profile. ORS speaks
// lng-first; the conversion happens here and nowhere else.
func (c *Client) FetchRoute(ctx context.Context, origin, dest domain.Coordinate, profile string) (_ *domain.RouteResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderCall("routing", start, err) }()

	endpoint := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, url.PathEscape(profile))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ors: create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/geo+json")

	q := req.URL.Query()
	q.Set("start", fmt.Sprintf("%f,%f", origin.Lng, origin.Lat))
	q.Set("end", fmt.Sprintf("%f,%f", dest.Lng, dest.Lat))
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ors: directions call: %v: %w", err, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ors: directions status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(b)), domain.ErrProviderUnavailable)
	}

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("ors: decode directions response: %v: %w", err, domain.ErrProviderUnavailable)
	}

	if len(decoded.Features) == 0 {
		return nil, fmt.Errorf("ors: no route between points: %w", domain.ErrNotFound)
	}

	feature := decoded.Features[0]
	if len(feature.Geometry.Coordinates) == 0 {
		return nil, fmt.Errorf("ors: route has empty geometry: %w", domain.ErrProviderUnavailable)
	}

	geometry := make(domain.Polyline, 0, len(feature.Geometry.Coordinates))
	for _, pair := range feature.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, fmt.Errorf("ors: malformed coordinate in geometry: %w", domain.ErrProviderUnavailable)
		}
		geometry = append(geometry, domain.Coordinate{Lat: pair[1], Lng: pair[0]})
	}

	var steps []json.RawMessage
	if len(feature.Properties.Segments) > 0 {
		steps = feature.Properties.Segments[0].Steps
	}

	return &domain.RouteResult{
		Geometry:    geometry,
		DistanceKm:  feature.Properties.Summary.Distance / 1000,
		DurationMin: feature.Properties.Summary.Duration / 60,
		Steps:       steps,
	}, nil
}

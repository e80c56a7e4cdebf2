// Package nominatim implements ports.GeocodingProvider against the
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/pkg/metrics"
)

// Client geocodes free-text addresses. The Nominatim usage policy requires
// an identifying User-Agent with contact details on every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// New creates a Nominatim client. contactEmail is embedded in the
// User-Agent header; timeout bounds each search call.
func New(baseURL, contactEmail string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  fmt.Sprintf("SafeRouteAPI/1.0 (%s)", contactEmail),
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves the address to its single best match. The address is
// passed through as given; normalization for cache keying happens in the
// usecase layer. Zero results map to domain.ErrNotFound, everything else
// that goes wrong to domain.ErrProviderUnavailable.
func (c *Client) Geocode(ctx context.Context, address string) (_ *domain.GeocodeResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderCall("geocoding", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search", nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	q := req.URL.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim: search call: %v: %w", err, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("nominatim: search status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(b)), domain.ErrProviderUnavailable)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("nominatim: decode search response: %v: %w", err, domain.ErrProviderUnavailable)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("nominatim: no results for %q: %w", address, domain.ErrNotFound)
	}

	top := results[0]
	lat, err := strconv.ParseFloat(top.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: parse lat %q: %v: %w", top.Lat, err, domain.ErrProviderUnavailable)
	}
	lng, err := strconv.ParseFloat(top.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: parse lon %q: %v: %w", top.Lon, err, domain.ErrProviderUnavailable)
	}

	displayName := top.DisplayName
	if displayName == "" {
		displayName = address
	}

	return &domain.GeocodeResult{
		Location:    domain.Coordinate{Lat: lat, Lng: lng},
		DisplayName: displayName,
	}, nil
}

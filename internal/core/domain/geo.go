package domain

import "encoding/json"

// Coordinate is a geographic point (WGS 84). Latitude is in [-90, 90],
// longitude in [-180, 180]. The core speaks lat/lng everywhere; provider
// axis conventions (e.g. ORS lng-first) are adapter concerns.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is within WGS 84 bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Polyline is an ordered sequence of coordinates describing a path.
// Insertion order is path order and is never reordered by the core.
type Polyline []Coordinate

// RouteResult is a fetched travel route. Distances are kilometers and
// durations minutes; the routing adapter converts from provider units.
type RouteResult struct {
	Geometry    Polyline          `json:"geometry"`
	DistanceKm  float64           `json:"distance_km"`
	DurationMin float64           `json:"duration_min"`
	Steps       []json.RawMessage `json:"steps"`
}

// GeocodeResult is the single best match for a free-text address.
type GeocodeResult struct {
	Location    Coordinate `json:"location"`
	DisplayName string     `json:"display_name"`
}

// Package geospatial implements the distance math behind corridor matching
// and nearby search: great-circle distances and point-to-path sampling.
package geospatial

import (
	"math"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

const earthRadiusKm = 6371.0

// DefaultStride is the default corridor sampling stride, in vertices.
// Full-resolution route geometries can carry hundreds of vertices; sampling
// every fifth trades a small amount of accuracy for a shorter scan. The
// stride is tunable through configuration.
const DefaultStride = 5

// Distance returns the great-circle distance in kilometers between two
// points using the haversine formula. It is symmetric, non-negative, and
// defined for every valid coordinate pair, antipodal points included.
func Distance(a, b domain.Coordinate) float64 {
	phi1 := toRad(a.Lat)
	phi2 := toRad(b.Lat)
	dPhi := toRad(b.Lat - a.Lat)
	dLambda := toRad(b.Lng - a.Lng)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	// Near-antipodal pairs can overshoot 1 by a few ulps, which would push
	// Asin out of its domain.
	if h > 1 {
		h = 1
	} else if h < 0 {
		h = 0
	}

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// ClosestDistanceToPath returns the minimum distance in kilometers from p
// to the sampled vertices of path. stride counts vertices, not kilometers:
// vertices 0, stride, 2*stride, ... are checked regardless of path length.
// A stride below 1 is treated as 1. The path must not be empty; that is a
// caller contract violation.
func ClosestDistanceToPath(path domain.Polyline, p domain.Coordinate, stride int) float64 {
	if stride < 1 {
		stride = 1
	}

	min := math.Inf(1)
	for i := 0; i < len(path); i += stride {
		if d := Distance(path[i], p); d < min {
			min = d
		}
	}
	return min
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

package geo

import (
	"math"
)

const (
	earthRadiusMeters = 6371000.0 // Earth's radius in meters

	// MetersPerDegreeLat is the equirectangular approximation used for
	// the bounding-box pre-filter and the jitter offset conversion.
	MetersPerDegreeLat = 111000.0

	// minCosLat keeps the longitude scale finite near the poles.
	minCosLat = 0.0001
)

// Coordinate is a WGS 84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether c lies inside the box, borders included.
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Coordinate {
	return Coordinate{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// Valid reports whether c is a usable lat/lon pair.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Clamp snaps c into the valid lat/lon domain.
func (c Coordinate) Clamp() Coordinate {
	return Coordinate{
		Lat: clamp(c.Lat, -90, 90),
		Lon: clamp(c.Lon, -180, 180),
	}
}

// BoundingBox returns a rectangle that fully contains the circle of
// radiusMeters around center. It is intentionally loose: it is a cheap
// pre-filter for a store query, never the authoritative distance check.
// The box is never tighter than the true circle.
func BoundingBox(center Coordinate, radiusMeters float64) Bounds {
	latDelta := radiusMeters / MetersPerDegreeLat
	lonDelta := radiusMeters / (MetersPerDegreeLat * cosLat(center.Lat))

	return Bounds{
		MinLat: clamp(center.Lat-latDelta, -90, 90),
		MaxLat: clamp(center.Lat+latDelta, -90, 90),
		MinLon: clamp(center.Lon-lonDelta, -180, 180),
		MaxLon: clamp(center.Lon+lonDelta, -180, 180),
	}
}

// DistanceMeters calculates the great-circle distance between two points
// using the haversine formula. This is the authoritative radius check.
func DistanceMeters(a, b Coordinate) float64 {
	lat1Rad := toRadians(a.Lat)
	lat2Rad := toRadians(b.Lat)
	deltaLat := toRadians(b.Lat - a.Lat)
	deltaLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// OffsetByMeters shifts c by (east, north) meters using the same
// meters-per-degree approximation as BoundingBox, clamped to the
// valid domain.
func OffsetByMeters(c Coordinate, eastMeters, northMeters float64) Coordinate {
	shifted := Coordinate{
		Lat: c.Lat + northMeters/MetersPerDegreeLat,
		Lon: c.Lon + eastMeters/(MetersPerDegreeLat*cosLat(c.Lat)),
	}
	return shifted.Clamp()
}

// cosLat is |cos(lat)| floored away from zero so longitude scaling
// never divides by a vanishing cosine near the poles.
func cosLat(latDegrees float64) float64 {
	return math.Max(minCosLat, math.Abs(math.Cos(toRadians(latDegrees))))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package geo

import "math"

// Envelope is the minimal bounding rectangle over a set of points.
// A single point yields a degenerate, zero-area envelope.
type Envelope struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// NewEnvelope computes the envelope of a point set.
// An empty set is an error.
func NewEnvelope(points []Point) (Envelope, error) {
	if len(points) == 0 {
		return Envelope{}, &ValidationError{Field: "points", Msg: "cannot compute envelope of an empty point set"}
	}
	e := Envelope{
		MinLon: points[0].Lon,
		MinLat: points[0].Lat,
		MaxLon: points[0].Lon,
		MaxLat: points[0].Lat,
	}
	for _, p := range points[1:] {
		e.MinLon = math.Min(e.MinLon, p.Lon)
		e.MinLat = math.Min(e.MinLat, p.Lat)
		e.MaxLon = math.Max(e.MaxLon, p.Lon)
		e.MaxLat = math.Max(e.MaxLat, p.Lat)
	}
	return e, nil
}

// Center returns the midpoint of the envelope.
func (e Envelope) Center() Point {
	return Point{
		Lon: (e.MinLon + e.MaxLon) / 2,
		Lat: (e.MinLat + e.MaxLat) / 2,
	}
}

// Contains reports whether p lies within the envelope, borders included.
func (e Envelope) Contains(p Point) bool {
	return p.Lon >= e.MinLon && p.Lon <= e.MaxLon &&
		p.Lat >= e.MinLat && p.Lat <= e.MaxLat
}

// BoundingBox returns an envelope that covers every point within radius
// meters of center. It over-covers near the poles and does not wrap the
// antimeridian; callers use it as a coarse prefilter ahead of an exact
// distance test.
func BoundingBox(center Point, radius float64) Envelope {
	// meters per degree of latitude on the mean-radius sphere
	metersPerDegree := earthRadius * math.Pi / 180

	dLat := radius / metersPerDegree
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	dLon := 180.0
	if cosLat > 1e-9 {
		dLon = radius / (metersPerDegree * cosLat)
	}

	return Envelope{
		MinLon: math.Max(center.Lon-dLon, -180),
		MinLat: math.Max(center.Lat-dLat, -90),
		MaxLon: math.Min(center.Lon+dLon, 180),
		MaxLat: math.Min(center.Lat+dLat, 90),
	}
}

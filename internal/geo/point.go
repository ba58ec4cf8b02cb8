package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a WGS84 coordinate pair, longitude first.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// ValidationError reports a coordinate that failed validation and why.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// NewPoint validates a lon/lat pair. Latitude must be within [-90, 90]
// and longitude within [-180, 180], boundaries included.
func NewPoint(lon, lat float64) (Point, error) {
	if lat < -90 || lat > 90 {
		return Point{}, &ValidationError{Field: "lat", Msg: fmt.Sprintf("latitude must be between -90 and 90, got %v", lat)}
	}
	if lon < -180 || lon > 180 {
		return Point{}, &ValidationError{Field: "lon", Msg: fmt.Sprintf("longitude must be between -180 and 180, got %v", lon)}
	}
	return Point{Lon: lon, Lat: lat}, nil
}

// ParsePoint parses a "lon|lat" pair as used by the point query parameters.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 2 {
		return Point{}, &ValidationError{Field: "point", Msg: fmt.Sprintf("expected lon|lat, got %q", s)}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, &ValidationError{Field: "lon", Msg: fmt.Sprintf("not a number: %q", parts[0])}
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, &ValidationError{Field: "lat", Msg: fmt.Sprintf("not a number: %q", parts[1])}
	}
	return NewPoint(lon, lat)
}

func (p Point) String() string {
	return fmt.Sprintf("%v|%v", p.Lon, p.Lat)
}

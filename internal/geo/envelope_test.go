package geo

import (
	"math"
	"testing"
)

func TestNewEnvelopeEmpty(t *testing.T) {
	if _, err := NewEnvelope(nil); err == nil {
		t.Fatalf("Expected error for empty point set")
	}
}

func TestNewEnvelopeSinglePoint(t *testing.T) {
	e, err := NewEnvelope([]Point{{Lon: 4.9, Lat: 52.37}})
	if err != nil {
		t.Fatalf("Failed to compute envelope: %v", err)
	}
	if e.MinLon != 4.9 || e.MaxLon != 4.9 || e.MinLat != 52.37 || e.MaxLat != 52.37 {
		t.Errorf("Expected degenerate envelope at the point, got %+v", e)
	}
	c := e.Center()
	if c.Lon != 4.9 || c.Lat != 52.37 {
		t.Errorf("Expected center at the point, got %+v", c)
	}
}

func TestNewEnvelopeContainsAllPoints(t *testing.T) {
	points := []Point{
		{Lon: -1.5, Lat: 10},
		{Lon: 3, Lat: -2},
		{Lon: 0.25, Lat: 48},
		{Lon: 2.8, Lat: 7.7},
	}
	e, err := NewEnvelope(points)
	if err != nil {
		t.Fatalf("Failed to compute envelope: %v", err)
	}
	for _, p := range points {
		if !e.Contains(p) {
			t.Errorf("Envelope %+v does not contain input point %+v", e, p)
		}
	}
	if e.MinLon != -1.5 || e.MaxLon != 3 || e.MinLat != -2 || e.MaxLat != 48 {
		t.Errorf("Unexpected envelope bounds: %+v", e)
	}
}

func TestDistance(t *testing.T) {
	// one degree of latitude on the mean-radius sphere is ~111.2 km
	d := Distance(Point{Lon: 0, Lat: 0}, Point{Lon: 0, Lat: 1})
	if math.Abs(d-111195) > 100 {
		t.Errorf("Expected ~111195m for one degree of latitude, got %v", d)
	}

	if d := Distance(Point{Lon: 4.9, Lat: 52.37}, Point{Lon: 4.9, Lat: 52.37}); d != 0 {
		t.Errorf("Expected zero distance for identical points, got %v", d)
	}
}

func TestBoundingBoxCoversRadius(t *testing.T) {
	center := Point{Lon: 4.9, Lat: 52.37}
	radius := 5000.0
	box := BoundingBox(center, radius)

	if !box.Contains(center) {
		t.Fatalf("Bounding box does not contain its center")
	}

	// points just inside the radius in the four cardinal directions
	// must fall within the box
	offsets := []Point{
		{Lon: center.Lon, Lat: center.Lat + 0.04},
		{Lon: center.Lon, Lat: center.Lat - 0.04},
		{Lon: center.Lon + 0.07, Lat: center.Lat},
		{Lon: center.Lon - 0.07, Lat: center.Lat},
	}
	for _, p := range offsets {
		if Distance(center, p) > radius {
			continue
		}
		if !box.Contains(p) {
			t.Errorf("Point %+v within radius but outside bounding box %+v", p, box)
		}
	}
}

func TestBoundingBoxClamped(t *testing.T) {
	box := BoundingBox(Point{Lon: 179.9, Lat: 89.9}, 100000)
	if box.MaxLat > 90 || box.MaxLon > 180 {
		t.Errorf("Bounding box not clamped to coordinate ranges: %+v", box)
	}
}

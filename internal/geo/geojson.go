package geo

import (
	"encoding/json"
	"fmt"
)

type GeometryType string

const (
	GeometryPoint           GeometryType = "Point"
	GeometryMultiPoint      GeometryType = "MultiPoint"
	GeometryLineString      GeometryType = "LineString"
	GeometryMultiLineString GeometryType = "MultiLineString"
	GeometryPolygon         GeometryType = "Polygon"
	GeometryMultiPolygon    GeometryType = "MultiPolygon"
)

// Geometry is a parsed GeoJSON geometry. Points holds every coordinate
// of the shape flattened in order, which is all the downstream envelope
// and distance code needs; Raw retains the original encoding for storage.
type Geometry struct {
	Type   GeometryType    `json:"type"`
	Points []Point         `json:"-"`
	Raw    json.RawMessage `json:"-"`
}

// MarshalJSON emits the original GeoJSON encoding.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if len(g.Raw) > 0 {
		return g.Raw, nil
	}
	return json.Marshal(struct {
		Type GeometryType `json:"type"`
	}{g.Type})
}

// ParseGeometry parses and validates a GeoJSON geometry object.
// Every coordinate pair is range-checked.
func ParseGeometry(raw json.RawMessage) (*Geometry, error) {
	if len(raw) == 0 {
		return nil, &ValidationError{Field: "geometry", Msg: "missing geometry object"}
	}

	var head struct {
		Type        GeometryType    `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, &ValidationError{Field: "geometry", Msg: fmt.Sprintf("malformed geometry object: %v", err)}
	}
	if len(head.Coordinates) == 0 {
		return nil, &ValidationError{Field: "geometry", Msg: "missing coordinates"}
	}

	var (
		points []Point
		err    error
	)
	switch head.Type {
	case GeometryPoint:
		var pos []float64
		points, err = appendPosition(points, head.Coordinates, &pos)
	case GeometryMultiPoint, GeometryLineString:
		points, err = parseDepth1(head.Coordinates)
	case GeometryMultiLineString, GeometryPolygon:
		points, err = parseDepth2(head.Coordinates)
	case GeometryMultiPolygon:
		points, err = parseDepth3(head.Coordinates)
	default:
		return nil, &ValidationError{Field: "geometry", Msg: fmt.Sprintf("unsupported geometry type %q", head.Type)}
	}
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, &ValidationError{Field: "geometry", Msg: "geometry has no coordinates"}
	}

	return &Geometry{Type: head.Type, Points: points, Raw: append(json.RawMessage(nil), raw...)}, nil
}

// appendPosition validates one GeoJSON position. Positions may carry an
// altitude as a third element; anything past longitude and latitude is
// ignored.
func appendPosition(points []Point, raw json.RawMessage, scratch *[]float64) ([]Point, error) {
	*scratch = (*scratch)[:0]
	if err := json.Unmarshal(raw, scratch); err != nil {
		return nil, &ValidationError{Field: "geometry", Msg: fmt.Sprintf("malformed position: %v", err)}
	}
	if len(*scratch) < 2 {
		return nil, &ValidationError{Field: "geometry", Msg: "position needs at least lon and lat"}
	}
	p, err := NewPoint((*scratch)[0], (*scratch)[1])
	if err != nil {
		return nil, err
	}
	return append(points, p), nil
}

func parseDepth1(raw json.RawMessage) ([]Point, error) {
	var positions []json.RawMessage
	if err := json.Unmarshal(raw, &positions); err != nil {
		return nil, &ValidationError{Field: "geometry", Msg: fmt.Sprintf("malformed coordinates: %v", err)}
	}
	var (
		points  []Point
		scratch []float64
		err     error
	)
	for _, pos := range positions {
		if points, err = appendPosition(points, pos, &scratch); err != nil {
			return nil, err
		}
	}
	return points, nil
}

func parseDepth2(raw json.RawMessage) ([]Point, error) {
	var rings []json.RawMessage
	if err := json.Unmarshal(raw, &rings); err != nil {
		return nil, &ValidationError{Field: "geometry", Msg: fmt.Sprintf("malformed coordinates: %v", err)}
	}
	var points []Point
	for _, ring := range rings {
		ps, err := parseDepth1(ring)
		if err != nil {
			return nil, err
		}
		points = append(points, ps...)
	}
	return points, nil
}

func parseDepth3(raw json.RawMessage) ([]Point, error) {
	var polys []json.RawMessage
	if err := json.Unmarshal(raw, &polys); err != nil {
		return nil, &ValidationError{Field: "geometry", Msg: fmt.Sprintf("malformed coordinates: %v", err)}
	}
	var points []Point
	for _, poly := range polys {
		ps, err := parseDepth2(poly)
		if err != nil {
			return nil, err
		}
		points = append(points, ps...)
	}
	return points, nil
}

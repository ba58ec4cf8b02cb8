package main

import (
	"log/slog"

	"github.com/mapcrowd/roulette/internal/geo"
	"github.com/mapcrowd/roulette/internal/selector"
)

// parseArea assembles the optional spatial constraint from the -near and
// -radius flags. A partially specified constraint is treated as no
// constraint at all.
func parseArea(near string, radius float64) (*selector.Area, error) {
	if near == "" && radius == 0 {
		return nil, nil
	}
	if near == "" || radius == 0 {
		slog.Warn("ignoring partial spatial constraint, need both -near and -radius")
		return nil, nil
	}
	center, err := geo.ParsePoint(near)
	if err != nil {
		return nil, err
	}
	return selector.AreaFromParts(&center.Lon, &center.Lat, &radius)
}

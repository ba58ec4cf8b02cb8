// Package selector hands out random tasks from a challenge's eligible
// pool. Each task carries a stable random key in [0,1); selection draws
// a fresh value and takes the first eligible task at or above it,
// wrapping around to the low end of the key space when the draw lands
// above every remaining key. The two-phase scan approximates uniform
// selection over the remaining pool without reshuffling it, and an
// optional circular area constraint composes identically with both
// phases.
package selector

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/mapcrowd/roulette/internal/geo"
	"github.com/mapcrowd/roulette/pkg/models"
)

// Area is a circular spatial constraint: tasks qualify when their
// location lies within Radius meters of the center.
type Area struct {
	Center geo.Point
	Radius float64
}

// Contains reports whether p qualifies under the constraint.
func (a *Area) Contains(p geo.Point) bool {
	return geo.Distance(a.Center, p) <= a.Radius
}

// AreaFromParts assembles a constraint from optional session values.
// A constraint is only considered present when all three of lon, lat and
// radius are set; anything partial is treated as no constraint at all.
func AreaFromParts(lon, lat, radius *float64) (*Area, error) {
	if lon == nil || lat == nil || radius == nil {
		return nil, nil
	}
	center, err := geo.NewPoint(*lon, *lat)
	if err != nil {
		return nil, err
	}
	if *radius <= 0 {
		return nil, &geo.ValidationError{Field: "radius", Msg: fmt.Sprintf("radius must be positive, got %v", *radius)}
	}
	return &Area{Center: center, Radius: *radius}, nil
}

// TaskStore is the slice of the task store the selector needs: the
// eligible task with the lowest random key in [lo, hi), optionally
// narrowed to an area, or nil when there is none.
type TaskStore interface {
	FirstEligible(ctx context.Context, challengeSlug string, statuses []models.TaskStatus, lo, hi float64, area *Area) (*models.Task, error)
}

type Selector struct {
	store TaskStore
	rnd   func() float64
}

func New(store TaskStore) *Selector {
	return &Selector{store: store, rnd: rand.Float64}
}

// NewWithSource returns a selector drawing from src, for deterministic
// selection in tests.
func NewWithSource(store TaskStore, src *rand.Rand) *Selector {
	return &Selector{store: store, rnd: src.Float64}
}

// Next picks one eligible task from the challenge, or nil when the pool
// is empty under the given constraint. An empty pool is a legitimate
// outcome, not an error.
func (s *Selector) Next(ctx context.Context, challengeSlug string, area *Area) (*models.Task, error) {
	r := s.rnd()
	statuses := models.EligibleStatuses()

	t, err := s.store.FirstEligible(ctx, challengeSlug, statuses, r, 1, area)
	if err != nil {
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	if t != nil {
		return t, nil
	}

	// No eligible task carries a key at or above the draw. That gets
	// likelier as the pool shrinks; wrap around to the low end.
	t, err = s.store.FirstEligible(ctx, challengeSlug, statuses, 0, r, area)
	if err != nil {
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	return t, nil
}

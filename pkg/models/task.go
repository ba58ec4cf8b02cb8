package models

import (
	"encoding/json"
	"time"

	"github.com/mapcrowd/roulette/internal/geo"
)

type TaskStatus string

const (
	TaskStatusCreated       TaskStatus = "created"
	TaskStatusAvailable     TaskStatus = "available"
	TaskStatusSkipped       TaskStatus = "skipped"
	TaskStatusAssigned      TaskStatus = "assigned"
	TaskStatusFixed         TaskStatus = "fixed"
	TaskStatusFalsePositive TaskStatus = "falsepositive"
	TaskStatusAlreadyFixed  TaskStatus = "alreadyfixed"
	TaskStatusDeleted       TaskStatus = "deleted"
)

// Known reports whether s is one of the fixed status values.
func (s TaskStatus) Known() bool {
	switch s {
	case TaskStatusCreated, TaskStatusAvailable, TaskStatusSkipped,
		TaskStatusAssigned, TaskStatusFixed, TaskStatusFalsePositive,
		TaskStatusAlreadyFixed, TaskStatusDeleted:
		return true
	}
	return false
}

// Eligible reports whether a task in this status may be handed out.
func (s TaskStatus) Eligible() bool {
	return s == TaskStatusAvailable || s == TaskStatusSkipped || s == TaskStatusCreated
}

// EligibleStatuses is the status set a task must be in to be selectable.
func EligibleStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusAvailable, TaskStatusSkipped, TaskStatusCreated}
}

type Task struct {
	ID            string     `json:"id"`
	ChallengeSlug string     `json:"challenge_slug"`
	Identifier    string     `json:"identifier"`
	Status        TaskStatus `json:"status"`

	// Random is the selection key, drawn once in [0,1) when the task is
	// stored and never reassigned afterwards.
	Random float64 `json:"random"`

	Instruction string          `json:"instruction,omitempty"`
	Manifest    json.RawMessage `json:"manifest,omitempty"`

	// Location is the center of the envelope over all geometry
	// coordinates, used for distance filtering.
	Location   *geo.Point     `json:"location,omitempty"`
	Geometries []TaskGeometry `json:"geometries,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskGeometry is one OSM-derived shape belonging to a task. It is
// immutable once stored.
type TaskGeometry struct {
	ID       string       `json:"id"`
	OSMID    string       `json:"osmid,omitempty"`
	Geometry geo.Geometry `json:"geometry"`
}

// DeriveLocation recomputes the task location from its geometries.
// A task without coordinates keeps a nil location.
func (t *Task) DeriveLocation() {
	var points []geo.Point
	for _, g := range t.Geometries {
		points = append(points, g.Geometry.Points...)
	}
	env, err := geo.NewEnvelope(points)
	if err != nil {
		t.Location = nil
		return
	}
	center := env.Center()
	t.Location = &center
}

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mapcrowd/roulette/internal/geo"
	"github.com/mapcrowd/roulette/pkg/models"
)

// TaskLookup answers whether a task already exists in a challenge. The
// parser needs it to decide whether geometries are required: a payload
// for a brand-new task must carry them, an update may omit them.
type TaskLookup interface {
	TaskExists(ctx context.Context, challengeSlug, identifier string) (bool, error)
}

// Feature is one entry of a GeoJSON-like feature collection.
type Feature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// FeatureCollection wraps the features of a task payload.
type FeatureCollection struct {
	Features []Feature `json:"features"`
}

// TaskPayload is the admin-surface form of a single task.
type TaskPayload struct {
	Identifier  string             `json:"identifier"`
	Geometries  *FeatureCollection `json:"geometries"`
	Instruction string             `json:"instruction"`
}

// ParseTask validates a single task payload for the given challenge and
// materializes a Task with its geometry children. The task status and
// random key are left for the store to assign.
func ParseTask(ctx context.Context, challengeSlug string, data []byte, lookup TaskLookup) (*models.Task, error) {
	var payload TaskPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode task payload: %w", err)
	}
	return ParseTaskPayload(ctx, challengeSlug, payload, lookup)
}

// ParseTaskPayload is ParseTask for an already-decoded payload.
func ParseTaskPayload(ctx context.Context, challengeSlug string, payload TaskPayload, lookup TaskLookup) (*models.Task, error) {
	if payload.Identifier == "" {
		return nil, &MissingFieldError{Field: "identifier"}
	}

	if payload.Geometries == nil {
		exists, err := lookup.TaskExists(ctx, challengeSlug, payload.Identifier)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing task: %w", err)
		}
		if !exists {
			// new tasks cannot be created without geometry
			return nil, &MissingFieldError{Field: "geometries"}
		}
	}

	t := &models.Task{
		ChallengeSlug: challengeSlug,
		Identifier:    payload.Identifier,
		Status:        models.TaskStatusCreated,
		Instruction:   payload.Instruction,
	}

	if payload.Geometries != nil {
		for i, feature := range payload.Geometries.Features {
			g, err := geo.ParseGeometry(feature.Geometry)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			t.Geometries = append(t.Geometries, models.TaskGeometry{
				OSMID:    osmID(feature.Properties),
				Geometry: *g,
			})
		}
	}

	t.DeriveLocation()
	return t, nil
}

// osmID pulls the optional osmid out of feature properties. Upstream
// editors send it either as a string or a bare number.
func osmID(properties map[string]any) string {
	switch v := properties["osmid"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// BulkTask is one element of the bulk upload form used by remote
// publishers. Manifest and Location are kept as raw JSON; the location
// is parsed into a geometry when the task is materialized.
type BulkTask struct {
	ID       string          `json:"id"`
	Manifest json.RawMessage `json:"manifest"`
	Location json.RawMessage `json:"location"`
}

// ParseTaskBatch validates an ordered bulk payload. Every element must
// carry id, manifest and location; the first violation rejects the whole
// batch. This is a pure pre-check: nothing is returned unless the full
// batch is valid.
func ParseTaskBatch(data []byte) ([]BulkTask, error) {
	var elements []map[string]json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("bulk payload must be a JSON array: %w", err)
	}

	tasks := make([]BulkTask, 0, len(elements))
	for i, element := range elements {
		for _, field := range []string{"id", "manifest", "location"} {
			if _, ok := element[field]; !ok {
				return nil, &SchemaError{Index: i, Field: field}
			}
		}
		var t BulkTask
		if err := json.Unmarshal(element["id"], &t.ID); err != nil {
			return nil, fmt.Errorf("task %d: failed to decode id: %w", i, err)
		}
		t.Manifest = element["manifest"]
		t.Location = element["location"]
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Task materializes a bulk element into a Task for the given challenge.
func (b BulkTask) Task(challengeSlug string) (*models.Task, error) {
	g, err := geo.ParseGeometry(b.Location)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", b.ID, err)
	}
	t := &models.Task{
		ChallengeSlug: challengeSlug,
		Identifier:    b.ID,
		Status:        models.TaskStatusCreated,
		Manifest:      b.Manifest,
		Geometries:    []models.TaskGeometry{{Geometry: *g}},
	}
	t.DeriveLocation()
	return t, nil
}

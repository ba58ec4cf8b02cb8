package models

import (
	"encoding/json"
	"testing"

	"github.com/mapcrowd/roulette/internal/geo"
)

func TestTaskStatusKnown(t *testing.T) {
	for _, s := range []TaskStatus{
		TaskStatusCreated, TaskStatusAvailable, TaskStatusSkipped,
		TaskStatusAssigned, TaskStatusFixed, TaskStatusFalsePositive,
		TaskStatusAlreadyFixed, TaskStatusDeleted,
	} {
		if !s.Known() {
			t.Errorf("Expected %s to be known", s)
		}
	}
	if TaskStatus("bogus").Known() {
		t.Errorf("Expected bogus status to be unknown")
	}
}

func TestTaskStatusEligible(t *testing.T) {
	eligible := map[TaskStatus]bool{
		TaskStatusAvailable: true,
		TaskStatusSkipped:   true,
		TaskStatusCreated:   true,
	}
	for _, s := range []TaskStatus{
		TaskStatusCreated, TaskStatusAvailable, TaskStatusSkipped,
		TaskStatusAssigned, TaskStatusFixed, TaskStatusFalsePositive,
		TaskStatusAlreadyFixed, TaskStatusDeleted,
	} {
		if s.Eligible() != eligible[s] {
			t.Errorf("Status %s: expected eligible=%v", s, eligible[s])
		}
	}
	if len(EligibleStatuses()) != 3 {
		t.Errorf("Expected 3 eligible statuses")
	}
}

func TestChallengeTypeRegistry(t *testing.T) {
	info, ok := LookupChallengeType(ChallengeTypeDefault)
	if !ok {
		t.Fatalf("Expected default type registered")
	}
	if info.BulkIngest {
		t.Errorf("Expected default type to reject bulk uploads")
	}

	info, ok = LookupChallengeType(ChallengeTypeRemote)
	if !ok {
		t.Fatalf("Expected remote type registered")
	}
	if !info.BulkIngest {
		t.Errorf("Expected remote type to accept bulk uploads")
	}

	if _, ok := LookupChallengeType("mystery"); ok {
		t.Errorf("Expected unknown tag rejected")
	}

	known := KnownChallengeTypes()
	if len(known) != 2 || known[0] != ChallengeTypeDefault || known[1] != ChallengeTypeRemote {
		t.Errorf("Unexpected registry contents: %v", known)
	}
}

func TestDeriveLocation(t *testing.T) {
	g, err := geo.ParseGeometry(json.RawMessage(`{"type":"LineString","coordinates":[[0,0],[2,2]]}`))
	if err != nil {
		t.Fatalf("Failed to parse geometry: %v", err)
	}

	task := &Task{Geometries: []TaskGeometry{{Geometry: *g}}}
	task.DeriveLocation()
	if task.Location == nil {
		t.Fatalf("Expected a derived location")
	}
	if task.Location.Lon != 1 || task.Location.Lat != 1 {
		t.Errorf("Expected envelope center (1, 1), got %+v", task.Location)
	}

	empty := &Task{}
	empty.DeriveLocation()
	if empty.Location != nil {
		t.Errorf("Expected nil location for task without geometries")
	}
}

package components

import (
	"strings"
	"testing"

	"github.com/mapcrowd/roulette/internal/geo"
	"github.com/mapcrowd/roulette/internal/stats"
	"github.com/mapcrowd/roulette/pkg/models"
)

func TestStatsTableView(t *testing.T) {
	table := NewStatsTable("fix-crossings", []stats.Series{
		{Key: "fixed", Values: map[string]int64{"2014-01-01": 2, "2014-01-02": 0}},
		{Key: "skipped", Values: map[string]int64{"2014-01-01": 0, "2014-01-02": 7}},
	})
	view := table.View()

	for _, want := range []string{"fix-crossings", "fixed", "skipped", "2014-01-01", "2014-01-02", "7"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestStatsTableEmpty(t *testing.T) {
	view := NewStatsTable("fix-crossings", nil).View()
	if !strings.Contains(view, "no data") {
		t.Errorf("Expected empty placeholder, got:\n%s", view)
	}
}

func TestTaskCardView(t *testing.T) {
	task := &models.Task{
		ChallengeSlug: "fix-crossings",
		Identifier:    "node-1",
		Status:        models.TaskStatusAvailable,
		Instruction:   "straighten this way",
		Location:      &geo.Point{Lon: 4.9, Lat: 52.37},
		Geometries:    make([]models.TaskGeometry, 2),
	}
	view := NewTaskCard(task).View()

	for _, want := range []string{"node-1", "fix-crossings", "available", "straighten this way", "2"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestTaskCardNoTask(t *testing.T) {
	view := NewTaskCard(nil).View()
	if !strings.Contains(view, "no task available") {
		t.Errorf("Expected empty-pool placeholder, got:\n%s", view)
	}
}

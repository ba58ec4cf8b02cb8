package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mapcrowd/roulette/pkg/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return path
}

func TestLoadChallengeFile(t *testing.T) {
	path := writeFile(t, "challenge.yaml", `
slug: fix-crossings
title: Fix pedestrian crossings
type: default
active: true
instruction: Check each crossing for tactile paving
`)
	c, err := loadChallengeFile(path)
	if err != nil {
		t.Fatalf("Failed to load challenge file: %v", err)
	}
	if c.Slug != "fix-crossings" {
		t.Errorf("Expected slug fix-crossings, got %s", c.Slug)
	}
	if c.Type != models.ChallengeTypeDefault {
		t.Errorf("Expected type default, got %s", c.Type)
	}
	if !c.Active {
		t.Errorf("Expected active challenge")
	}
}

func TestLoadChallengeFileDefaultsType(t *testing.T) {
	path := writeFile(t, "challenge.yaml", "slug: bare\n")
	c, err := loadChallengeFile(path)
	if err != nil {
		t.Fatalf("Failed to load challenge file: %v", err)
	}
	if c.Type != models.ChallengeTypeDefault {
		t.Errorf("Expected type defaulted, got %s", c.Type)
	}
}

func TestLoadChallengeFileErrors(t *testing.T) {
	if _, err := loadChallengeFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected error for missing file")
	}

	path := writeFile(t, "noslug.yaml", "title: no slug here\n")
	if _, err := loadChallengeFile(path); err == nil {
		t.Errorf("Expected error for missing slug")
	}

	path = writeFile(t, "badtype.yaml", "slug: x\ntype: mystery\n")
	if _, err := loadChallengeFile(path); err == nil {
		t.Errorf("Expected error for unknown challenge type")
	}
}

package config

import (
	"log/slog"
	"testing"
)

func TestLoadEnvDefaults(t *testing.T) {
	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("Failed to load env: %v", err)
	}
	if env.DBPath == "" {
		t.Errorf("Expected a default database path")
	}
	if env.SlogLevel() != slog.LevelInfo {
		t.Errorf("Expected default level info, got %v", env.SlogLevel())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ROULETTE_DB_PATH", "/tmp/test.db")
	t.Setenv("ROULETTE_LOG_LEVEL", "debug")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("Failed to load env: %v", err)
	}
	if env.DBPath != "/tmp/test.db" {
		t.Errorf("Expected db path override, got %s", env.DBPath)
	}
	if env.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", env.SlogLevel())
	}
}

func TestSlogLevelFallback(t *testing.T) {
	env := &Env{LogLevel: "shouting"}
	if env.SlogLevel() != slog.LevelInfo {
		t.Errorf("Expected fallback to info for unknown level")
	}
}

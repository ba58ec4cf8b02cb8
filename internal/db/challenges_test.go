package db

import (
	"context"
	"testing"

	"github.com/mapcrowd/roulette/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	return db
}

func TestChallengeCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	c := &models.Challenge{
		Slug:   "fix-crossings",
		Title:  "Fix pedestrian crossings",
		Type:   models.ChallengeTypeDefault,
		Active: true,
	}
	if err := db.CreateChallenge(ctx, c); err != nil {
		t.Fatalf("Failed to create challenge: %v", err)
	}
	if len(c.ID) != 36 {
		t.Errorf("Expected generated UUID, got %q", c.ID)
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Errorf("Expected CreatedAt and UpdatedAt to be set")
	}

	fetched, err := db.GetChallenge(ctx, "fix-crossings", false)
	if err != nil {
		t.Fatalf("Failed to get challenge: %v", err)
	}
	if fetched == nil {
		t.Fatalf("Challenge not found")
	}
	if fetched.Title != c.Title || fetched.Type != c.Type || !fetched.Active {
		t.Errorf("Unexpected challenge: %+v", fetched)
	}

	missing, err := db.GetChallenge(ctx, "nope", false)
	if err != nil {
		t.Fatalf("Failed to get missing challenge: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing challenge, got %+v", missing)
	}
}

func TestChallengeActiveOnlyLookup(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	c := &models.Challenge{Slug: "dormant", Type: models.ChallengeTypeDefault, Active: false}
	if err := db.CreateChallenge(ctx, c); err != nil {
		t.Fatalf("Failed to create challenge: %v", err)
	}

	got, err := db.GetChallenge(ctx, "dormant", true)
	if err != nil {
		t.Fatalf("Failed to get challenge: %v", err)
	}
	if got != nil {
		t.Errorf("Expected inactive challenge hidden from active-only lookup")
	}

	if err := db.SetChallengeActive(ctx, "dormant", true); err != nil {
		t.Fatalf("Failed to activate challenge: %v", err)
	}
	got, err = db.GetChallenge(ctx, "dormant", true)
	if err != nil {
		t.Fatalf("Failed to get challenge: %v", err)
	}
	if got == nil {
		t.Errorf("Expected activated challenge to be found")
	}
}

func TestChallengeUnknownType(t *testing.T) {
	db := openTestDB(t)

	c := &models.Challenge{Slug: "weird", Type: "mystery"}
	if err := db.CreateChallenge(context.Background(), c); err == nil {
		t.Fatalf("Expected error for unknown challenge type")
	}
}

func TestListChallenges(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, c := range []*models.Challenge{
		{Slug: "b-challenge", Type: models.ChallengeTypeDefault, Active: true},
		{Slug: "a-challenge", Type: models.ChallengeTypeRemote, Active: false},
	} {
		if err := db.CreateChallenge(ctx, c); err != nil {
			t.Fatalf("Failed to create challenge %s: %v", c.Slug, err)
		}
	}

	all, err := db.ListChallenges(ctx, false)
	if err != nil {
		t.Fatalf("Failed to list challenges: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 challenges, got %d", len(all))
	}
	if all[0].Slug != "a-challenge" || all[1].Slug != "b-challenge" {
		t.Errorf("Expected challenges ordered by slug, got %s, %s", all[0].Slug, all[1].Slug)
	}

	active, err := db.ListChallenges(ctx, true)
	if err != nil {
		t.Fatalf("Failed to list active challenges: %v", err)
	}
	if len(active) != 1 || active[0].Slug != "b-challenge" {
		t.Errorf("Expected only the active challenge, got %+v", active)
	}
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mapcrowd/roulette/pkg/models"
)

// CreateChallenge inserts a new challenge. If c.ID is empty, a new UUID
// is generated. The type tag must be registered.
func (db *DB) CreateChallenge(ctx context.Context, c *models.Challenge) error {
	if c.Slug == "" {
		return fmt.Errorf("challenge slug is required")
	}
	if c.Type == "" {
		c.Type = models.ChallengeTypeDefault
	}
	if _, ok := models.LookupChallengeType(c.Type); !ok {
		return fmt.Errorf("unknown challenge type %q", c.Type)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `
		INSERT INTO challenges (id, slug, title, type, active, instruction)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING created_at, updated_at
	`
	err := db.QueryRowContext(ctx, query,
		c.ID, c.Slug, c.Title, string(c.Type), boolInt(c.Active), c.Instruction,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// GetChallenge retrieves a challenge by slug. With activeOnly set,
// an inactive challenge is treated as not found.
func (db *DB) GetChallenge(ctx context.Context, slug string, activeOnly bool) (*models.Challenge, error) {
	query := `
		SELECT id, slug, title, type, active, instruction, created_at, updated_at
		FROM challenges
		WHERE slug = ?
	`
	c, err := scanChallenge(db.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, err
	}
	if c == nil || (activeOnly && !c.Active) {
		return nil, nil
	}
	return c, nil
}

// ListChallenges returns challenges ordered by slug, optionally only the
// active ones.
func (db *DB) ListChallenges(ctx context.Context, activeOnly bool) ([]*models.Challenge, error) {
	query := `
		SELECT id, slug, title, type, active, instruction, created_at, updated_at
		FROM challenges
	`
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY slug ASC"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		c := &models.Challenge{}
		var active int
		var typ string
		err := rows.Scan(&c.ID, &c.Slug, &c.Title, &typ, &active, &c.Instruction, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		c.Type = models.ChallengeType(typ)
		c.Active = active == 1
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return challenges, nil
}

// SetChallengeActive flips the active flag of a challenge.
func (db *DB) SetChallengeActive(ctx context.Context, slug string, active bool) error {
	query := `UPDATE challenges SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE slug = ?`
	res, err := db.ExecContext(ctx, query, boolInt(active), slug)
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("challenge not found: %s", slug)
	}
	return nil
}

func scanChallenge(row *sql.Row) (*models.Challenge, error) {
	c := &models.Challenge{}
	var active int
	var typ string
	err := row.Scan(&c.ID, &c.Slug, &c.Title, &typ, &active, &c.Instruction, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	c.Type = models.ChallengeType(typ)
	c.Active = active == 1
	return c, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/mapcrowd/roulette/internal/stats"
	"github.com/mapcrowd/roulette/pkg/models"
)

const dayFormat = "2006-01-02"

// RecordStatusEvent bumps the counter for a status on the given UTC day.
func (db *DB) RecordStatusEvent(ctx context.Context, challengeSlug string, status models.TaskStatus, at time.Time) error {
	return recordStatusEvent(ctx, db.DB, challengeSlug, status, at)
}

func recordStatusEvent(ctx context.Context, exec executor, challengeSlug string, status models.TaskStatus, at time.Time) error {
	query := `
		INSERT INTO task_events (challenge_slug, status, day, count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (challenge_slug, status, day) DO UPDATE SET count = count + 1
	`
	if _, err := exec.ExecContext(ctx, query, challengeSlug, string(status), at.UTC().Format(dayFormat)); err != nil {
		return fmt.Errorf("failed to record status event: %w", err)
	}
	return nil
}

// StatusCountsByDay returns (status, day, count) tuples for a challenge,
// ordered by status then day, ready for the stats reshaper. from and to
// bound the day range when set; to is exclusive.
func (db *DB) StatusCountsByDay(ctx context.Context, challengeSlug string, from, to *time.Time) ([]stats.Tuple, error) {
	query := `SELECT status, day, count FROM task_events WHERE challenge_slug = ?`
	args := []any{challengeSlug}
	if from != nil {
		query += " AND day >= ?"
		args = append(args, from.UTC().Format(dayFormat))
	}
	if to != nil {
		query += " AND day < ?"
		args = append(args, to.UTC().Format(dayFormat))
	}
	query += " ORDER BY status ASC, day ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	var tuples []stats.Tuple
	for rows.Next() {
		var status, day string
		var count int64
		if err := rows.Scan(&status, &day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		d, err := time.ParseInLocation(dayFormat, day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event day %q: %w", day, err)
		}
		tuples = append(tuples, stats.Tuple{status, d, count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tuples, nil
}

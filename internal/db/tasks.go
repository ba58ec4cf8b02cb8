package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/mapcrowd/roulette/internal/geo"
	"github.com/mapcrowd/roulette/internal/selector"
	"github.com/mapcrowd/roulette/pkg/models"
)

// CreateTask inserts a new task with its geometry children.
// If t.ID is empty, a new UUID is generated. If t.Random is zero, the
// selection key is drawn here; it is never reassigned afterwards.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := db.createTask(ctx, tx, t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateTasks inserts a batch of tasks in one transaction. Either every
// task is stored or none are.
func (db *DB) CreateTasks(ctx context.Context, tasks []*models.Task) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tasks {
		if err := db.createTask(ctx, tx, t); err != nil {
			return fmt.Errorf("failed to create task %s: %w", t.Identifier, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) createTask(ctx context.Context, exec executor, t *models.Task) error {
	if t.Identifier == "" {
		return fmt.Errorf("task identifier is required")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = models.TaskStatusCreated
	}
	if t.Random == 0 {
		t.Random = rand.Float64()
	}
	if t.Location == nil {
		t.DeriveLocation()
	}

	var lon, lat any
	if t.Location != nil {
		lon, lat = t.Location.Lon, t.Location.Lat
	}
	var manifest any
	if len(t.Manifest) > 0 {
		manifest = string(t.Manifest)
	}

	query := `
		INSERT INTO tasks (id, challenge_slug, identifier, status, random, instruction, manifest, location_lon, location_lat)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at, updated_at
	`
	err := exec.QueryRowContext(ctx, query,
		t.ID, t.ChallengeSlug, t.Identifier, string(t.Status), t.Random, t.Instruction, manifest, lon, lat,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	for i := range t.Geometries {
		g := &t.Geometries[i]
		if g.ID == "" {
			g.ID = uuid.New().String()
		}
		_, err := exec.ExecContext(ctx,
			`INSERT INTO task_geometries (id, task_id, osmid, geojson) VALUES (?, ?, ?, ?)`,
			g.ID, t.ID, g.OSMID, string(g.Geometry.Raw),
		)
		if err != nil {
			return fmt.Errorf("failed to insert task geometry: %w", err)
		}
	}
	return nil
}

const taskColumns = `t.id, t.challenge_slug, t.identifier, t.status, t.random, t.instruction, t.manifest, t.location_lon, t.location_lat, t.created_at, t.updated_at`

// GetTask retrieves a task with its geometries by challenge slug and
// identifier.
func (db *DB) GetTask(ctx context.Context, challengeSlug, identifier string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.challenge_slug = ? AND t.identifier = ?`
	rows, err := db.QueryContext(ctx, query, challengeSlug, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	t, err := scanTask(rows)
	if err != nil {
		return nil, err
	}
	if err := db.loadGeometries(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// TaskExists reports whether a task identifier is already taken within
// a challenge. It satisfies the ingest parser's lookup interface.
func (db *DB) TaskExists(ctx context.Context, challengeSlug, identifier string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM tasks WHERE challenge_slug = ? AND identifier = ?`,
		challengeSlug, identifier,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check task existence: %w", err)
	}
	return true, nil
}

// UpdateTaskStatus sets a task's status and bumps the per-day counter
// for the new status. The random key is untouched.
func (db *DB) UpdateTaskStatus(ctx context.Context, challengeSlug, identifier string, status models.TaskStatus) error {
	if !status.Known() {
		return fmt.Errorf("unknown task status %q", status)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE challenge_slug = ? AND identifier = ?`,
		string(status), challengeSlug, identifier,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task not found: %s/%s", challengeSlug, identifier)
	}

	if err := recordStatusEvent(ctx, tx, challengeSlug, status, time.Now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FirstEligible returns the task with the lowest random key in [lo, hi)
// among the given statuses for a challenge, or nil when there is none.
// With an area constraint, candidates are prefiltered by a bounding box
// in SQL and checked against the exact great-circle distance per row.
func (db *DB) FirstEligible(ctx context.Context, challengeSlug string, statuses []models.TaskStatus, lo, hi float64, area *selector.Area) (*models.Task, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.challenge_slug = ? AND t.status IN (`
	args := []any{challengeSlug}
	for i, s := range statuses {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, string(s))
	}
	query += ") AND t.random >= ? AND t.random < ?"
	args = append(args, lo, hi)

	if area != nil {
		box := geo.BoundingBox(area.Center, area.Radius)
		query += ` AND t.location_lon BETWEEN ? AND ? AND t.location_lat BETWEEN ? AND ?`
		args = append(args, box.MinLon, box.MaxLon, box.MinLat, box.MaxLat)
	}
	query += " ORDER BY t.random ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		if area != nil && (t.Location == nil || !area.Contains(*t.Location)) {
			continue
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("rows error: %w", err)
		}
		if err := db.loadGeometries(ctx, t); err != nil {
			return nil, err
		}
		return t, nil
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return nil, nil
}

func (db *DB) loadGeometries(ctx context.Context, t *models.Task) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id, osmid, geojson FROM task_geometries WHERE task_id = ? ORDER BY id`,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load task geometries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g models.TaskGeometry
		var geojson string
		if err := rows.Scan(&g.ID, &g.OSMID, &geojson); err != nil {
			return fmt.Errorf("failed to scan task geometry: %w", err)
		}
		parsed, err := geo.ParseGeometry(json.RawMessage(geojson))
		if err != nil {
			return fmt.Errorf("failed to parse stored geometry %s: %w", g.ID, err)
		}
		g.Geometry = *parsed
		t.Geometries = append(t.Geometries, g)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}

func scanTask(rows *sql.Rows) (*models.Task, error) {
	t := &models.Task{}
	var status string
	var manifest sql.NullString
	var lon, lat sql.NullFloat64
	err := rows.Scan(
		&t.ID, &t.ChallengeSlug, &t.Identifier, &status, &t.Random, &t.Instruction,
		&manifest, &lon, &lat, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	t.Status = models.TaskStatus(status)
	if manifest.Valid {
		t.Manifest = json.RawMessage(manifest.String)
	}
	if lon.Valid && lat.Valid {
		t.Location = &geo.Point{Lon: lon.Float64, Lat: lat.Float64}
	}
	return t, nil
}

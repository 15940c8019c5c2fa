package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

// runColumns is the list of columns to select for run queries.
const runColumns = `id, started_at, finished_at, duration_ms, status, error, config_name, profiles, source_count, contributors`

// RunRepository persists bootstrap runs.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a repository over an open connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// scanRun scans a row into a runModel.
func scanRun(scanner interface{ Scan(...any) error }) (*runModel, error) {
	var model runModel
	err := scanner.Scan(
		&model.ID, &model.StartedAt, &model.FinishedAt, &model.DurationMs,
		&model.Status, &model.Error, &model.ConfigName, &model.Profiles,
		&model.SourceCount, &model.Contributors,
	)
	return &model, err
}

// Save inserts one run. Runs are immutable history; saving an existing ID
// fails on the primary key.
func (r *RunRepository) Save(run *Run) error {
	model := toRunModel(run)
	_, err := r.db.Exec(
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		model.ID, model.StartedAt, model.FinishedAt, model.DurationMs,
		model.Status, model.Error, model.ConfigName, model.Profiles,
		model.SourceCount, model.Contributors,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(id string) (*Run, error) {
	row := r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	model, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return model.toDomain(), nil
}

// List returns runs newest first. A limit <= 0 returns all runs.
func (r *RunRepository) List(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		model, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Prune deletes all but the keep most recent runs and reports how many rows
// were removed.
func (r *RunRepository) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := r.db.Exec(
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	return int(deleted), nil
}

// package repositories contains the persistence layer for run history.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/shared"
)

// RunRepository persists completed playlist runs.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository backed by db.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// RecordSummary builds a PlaylistRun from a summary and persists it.
func (r *RunRepository) RecordSummary(ctx context.Context, summary *models.PlaylistSummary, sourceFile string) (*models.PlaylistRun, error) {
	run := &models.PlaylistRun{
		ID:            shared.GenerateID(),
		SourceFile:    sourceFile,
		PlaylistID:    summary.PlaylistID,
		PlaylistName:  summary.PlaylistName,
		TotalSongs:    summary.TotalSongs,
		AddedCount:    len(summary.Added),
		DupCount:      len(summary.Duplicates),
		NotFoundCount: len(summary.NotFound),
		DryRun:        summary.DryRun,
	}

	if err := r.Create(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Create inserts a run record. Generates an ID when none is set.
func (r *RunRepository) Create(ctx context.Context, run *models.PlaylistRun) error {
	if run == nil {
		return fmt.Errorf("%w: run cannot be nil", shared.ErrInvalidInput)
	}
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}

	query := `
		INSERT INTO playlist_runs (id, source_file, playlist_id, playlist_name, total_songs, added_count, dup_count, not_found_count, dry_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.SourceFile, run.PlaylistID, run.PlaylistName,
		run.TotalSongs, run.AddedCount, run.DupCount, run.NotFoundCount, run.DryRun,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a single run by its ID.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.PlaylistRun, error) {
	query := `
		SELECT id, source_file, COALESCE(playlist_id, ''), playlist_name, total_songs, added_count, dup_count, not_found_count, dry_run, created_at
		FROM playlist_runs WHERE id = ?
	`

	var run models.PlaylistRun
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.SourceFile, &run.PlaylistID, &run.PlaylistName,
		&run.TotalSongs, &run.AddedCount, &run.DupCount, &run.NotFoundCount,
		&run.DryRun, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return &run, nil
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]models.PlaylistRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, source_file, COALESCE(playlist_id, ''), playlist_name, total_songs, added_count, dup_count, not_found_count, dry_run, created_at
		FROM playlist_runs ORDER BY created_at DESC, id LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.PlaylistRun
	for rows.Next() {
		var run models.PlaylistRun
		if err := rows.Scan(
			&run.ID, &run.SourceFile, &run.PlaylistID, &run.PlaylistName,
			&run.TotalSongs, &run.AddedCount, &run.DupCount, &run.NotFoundCount,
			&run.DryRun, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

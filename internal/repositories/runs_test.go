package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestRunRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		repo := NewRunRepository(newTestDB(t))

		run := &models.PlaylistRun{
			SourceFile:    "songs.csv",
			PlaylistID:    "PL123",
			PlaylistName:  "Road Trip",
			TotalSongs:    10,
			AddedCount:    7,
			DupCount:      1,
			NotFoundCount: 2,
		}

		if err := repo.Create(ctx, run); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if run.ID == "" {
			t.Fatal("expected ID to be generated")
		}

		got, err := repo.GetByID(ctx, run.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.PlaylistName != "Road Trip" || got.AddedCount != 7 {
			t.Errorf("unexpected run: %+v", got)
		}
		if got.CreatedAt == "" {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("nil run", func(t *testing.T) {
		repo := NewRunRepository(newTestDB(t))
		if err := repo.Create(ctx, nil); err == nil {
			t.Error("expected error for nil run")
		}
	})

	t.Run("get missing run", func(t *testing.T) {
		repo := NewRunRepository(newTestDB(t))
		if _, err := repo.GetByID(ctx, "missing"); err == nil {
			t.Error("expected error for missing run")
		}
	})

	t.Run("list returns newest first", func(t *testing.T) {
		repo := NewRunRepository(newTestDB(t))

		for i, name := range []string{"first", "second", "third"} {
			run := &models.PlaylistRun{
				SourceFile:   "songs.csv",
				PlaylistName: name,
				TotalSongs:   i,
			}
			if err := repo.Create(ctx, run); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		runs, err := repo.List(ctx, 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
	})

	t.Run("list respects limit", func(t *testing.T) {
		repo := NewRunRepository(newTestDB(t))

		for range 5 {
			if err := repo.Create(ctx, &models.PlaylistRun{SourceFile: "s.csv", PlaylistName: "n"}); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		runs, err := repo.List(ctx, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("record summary", func(t *testing.T) {
		repo := NewRunRepository(newTestDB(t))

		summary := &models.PlaylistSummary{
			PlaylistID:   "PL9",
			PlaylistName: "From Summary",
			TotalSongs:   3,
			Added:        []models.Song{{Title: "a"}, {Title: "b"}},
			Duplicates:   []models.Song{},
			NotFound:     []models.Song{{Title: "c"}},
		}

		run, err := repo.RecordSummary(ctx, summary, "input.csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if run.AddedCount != 2 || run.NotFoundCount != 1 || run.DupCount != 0 {
			t.Errorf("unexpected counts: %+v", run)
		}

		got, err := repo.GetByID(ctx, run.ID)
		if err != nil {
			t.Fatalf("expected run to be persisted, got %v", err)
		}
		if got.SourceFile != "input.csv" {
			t.Errorf("expected source file, got %s", got.SourceFile)
		}
	})
}

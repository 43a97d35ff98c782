package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytpl/internal/models"
	tu "github.com/desertthunder/ytpl/internal/testing"
)

func sampleSummary() *models.PlaylistSummary {
	return &models.PlaylistSummary{
		PlaylistID:   "PL123",
		PlaylistName: "Road Trip",
		PlaylistURL:  "https://www.youtube.com/playlist?list=PL123",
		TotalSongs:   4,
		Added:        []models.Song{{Title: "a", Artist: "x"}, {Title: "b", Artist: "y"}},
		Duplicates:   []models.Song{{Title: "c", Artist: "z"}},
		NotFound:     []models.Song{{Title: "d", Artist: "w"}},
	}
}

func TestExportToText(t *testing.T) {
	out := string(ExportToText(sampleSummary()))

	for _, want := range []string{"Road Trip", "4 total", "2 added", "1 duplicates", "1 not found", "Not found:", "w - d"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected text output to contain %q, got:\n%s", want, out)
		}
	}

	t.Run("demo mode is labelled", func(t *testing.T) {
		summary := sampleSummary()
		summary.DryRun = true
		if !strings.Contains(string(ExportToText(summary)), "demo") {
			t.Error("expected demo label")
		}
	})
}

func TestExportToMarkdown(t *testing.T) {
	out := string(ExportToMarkdown(sampleSummary()))

	if !strings.HasPrefix(out, "# Road Trip") {
		t.Errorf("expected title heading, got:\n%s", out)
	}
	if !strings.Contains(out, "[Open on YouTube](https://www.youtube.com/playlist?list=PL123)") {
		t.Error("expected playlist link")
	}
	if !strings.Contains(out, "## Not found") {
		t.Error("expected not found section")
	}

	t.Run("empty sections omitted", func(t *testing.T) {
		summary := sampleSummary()
		summary.NotFound = nil
		summary.Duplicates = nil
		out := string(ExportToMarkdown(summary))
		if strings.Contains(out, "## Not found") || strings.Contains(out, "## Duplicates") {
			t.Error("expected empty sections to be omitted")
		}
	})
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(sampleSummary())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded models.PlaylistSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if decoded.PlaylistName != "Road Trip" || len(decoded.Added) != 2 {
		t.Errorf("unexpected decoded summary: %+v", decoded)
	}
}

func TestSongsToCSV(t *testing.T) {
	data, err := SongsToCSV([]models.Song{
		{Title: "Song, with comma", Artist: "Band"},
		{Title: "Plain", Artist: "Other"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Title,Artist" {
		t.Errorf("expected header row, got %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Song, with comma"`) {
		t.Errorf("expected quoted comma field, got %q", lines[1])
	}
}

func TestWriteExport(t *testing.T) {
	summary := sampleSummary()

	t.Run("writes each format", func(t *testing.T) {
		tmpDir := t.TempDir()
		for _, format := range []string{"txt", "markdown", "json"} {
			path := filepath.Join(tmpDir, "summary."+format)
			if err := WriteExport(summary, format, path); err != nil {
				t.Fatalf("format %s: expected no error, got %v", format, err)
			}
			tu.AssertFileExists(t, path)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		if err := WriteExport(summary, "yaml", filepath.Join(t.TempDir(), "out")); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestWriteMissing(t *testing.T) {
	t.Run("writes csv per non-empty bucket", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "run")
		files, err := WriteMissing(sampleSummary(), base)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected 2 files, got %d", len(files))
		}

		content := tu.MustReadFile(t, base+"_not_found.csv")
		if !strings.Contains(content, "d,w") {
			t.Errorf("expected not-found song in csv, got %q", content)
		}
	})

	t.Run("skips empty buckets", func(t *testing.T) {
		summary := sampleSummary()
		summary.NotFound = nil
		summary.Duplicates = nil

		files, err := WriteMissing(summary, filepath.Join(t.TempDir(), "run"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(files) != 0 {
			t.Errorf("expected no files, got %v", files)
		}
	})
}

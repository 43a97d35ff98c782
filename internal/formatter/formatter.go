// package formatter renders run summaries to various formats (text, Markdown, JSON, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/shared"
)

// ExportToText renders a summary as plain text.
func ExportToText(summary *models.PlaylistSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", summary.PlaylistName))
	if summary.PlaylistURL != "" {
		buf.WriteString(fmt.Sprintf("URL: %s\n", summary.PlaylistURL))
	}
	if summary.DryRun {
		buf.WriteString("Mode: demo (no changes made)\n")
	}
	buf.WriteString(fmt.Sprintf("Songs: %d total, %d added, %d duplicates, %d not found\n",
		summary.TotalSongs, len(summary.Added), len(summary.Duplicates), len(summary.NotFound)))

	writeSongSection(&buf, "Not found", summary.NotFound)
	writeSongSection(&buf, "Duplicates", summary.Duplicates)

	if len(summary.Errors) > 0 {
		buf.WriteString("\nErrors:\n")
		for _, e := range summary.Errors {
			buf.WriteString(fmt.Sprintf("  - %s\n", e))
		}
	}

	return buf.Bytes()
}

func writeSongSection(buf *bytes.Buffer, title string, songs []models.Song) {
	if len(songs) == 0 {
		return
	}
	buf.WriteString(fmt.Sprintf("\n%s:\n", title))
	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, song))
	}
}

// ExportToMarkdown renders a summary as a Markdown report.
func ExportToMarkdown(summary *models.PlaylistSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", summary.PlaylistName))
	if summary.PlaylistURL != "" {
		buf.WriteString(fmt.Sprintf("[Open on YouTube](%s)\n\n", summary.PlaylistURL))
	}
	if summary.DryRun {
		buf.WriteString("_Demo run: no changes were made._\n\n")
	}

	buf.WriteString(fmt.Sprintf("**Total**: %d | **Added**: %d | **Duplicates**: %d | **Not found**: %d\n",
		summary.TotalSongs, len(summary.Added), len(summary.Duplicates), len(summary.NotFound)))

	if len(summary.NotFound) > 0 {
		buf.WriteString("\n## Not found\n\n")
		for _, song := range summary.NotFound {
			buf.WriteString(fmt.Sprintf("- %s\n", song))
		}
	}
	if len(summary.Duplicates) > 0 {
		buf.WriteString("\n## Duplicates\n\n")
		for _, song := range summary.Duplicates {
			buf.WriteString(fmt.Sprintf("- %s\n", song))
		}
	}

	return buf.Bytes()
}

// ExportToJSON renders a summary as indented JSON.
func ExportToJSON(summary *models.PlaylistSummary) ([]byte, error) {
	return shared.MarshalJSON(summary, true)
}

// SongsToCSV renders a song list as CSV with Title and Artist columns,
// the same shape the input files use.
func SongsToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Title", "Artist"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, song := range songs {
		if err := writer.Write([]string{song.Title, song.Artist}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteExport writes a summary to path in the given format (txt, markdown, json).
func WriteExport(summary *models.PlaylistSummary, format, path string) error {
	var data []byte
	var err error

	switch strings.ToLower(format) {
	case "txt", "text", "":
		data = ExportToText(summary)
	case "markdown", "md":
		data = ExportToMarkdown(summary)
	case "json":
		data, err = ExportToJSON(summary)
		if err != nil {
			return fmt.Errorf("failed to generate JSON: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// WriteMissing writes the not-found and duplicate lists next to path as
// CSV files, returning the files created.
func WriteMissing(summary *models.PlaylistSummary, basePath string) ([]string, error) {
	var files []string

	sections := []struct {
		suffix string
		songs  []models.Song
	}{
		{"_not_found.csv", summary.NotFound},
		{"_duplicates.csv", summary.Duplicates},
	}

	for _, section := range sections {
		if len(section.songs) == 0 {
			continue
		}
		data, err := SongsToCSV(section.songs)
		if err != nil {
			return files, err
		}
		path := basePath + section.suffix
		if err := os.WriteFile(path, data, 0644); err != nil {
			return files, fmt.Errorf("failed to write %s: %w", path, err)
		}
		files = append(files, path)
	}

	return files, nil
}

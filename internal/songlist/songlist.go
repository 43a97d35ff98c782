// package songlist reads song lists from CSV files.
//
// A song list is a CSV file with Title and Artist columns. Rows missing
// either value are skipped rather than treated as errors.
package songlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/shared"
)

// FileInfo describes a CSV file available in the songs folder.
type FileInfo struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

// Validation reports the result of checking a CSV file's format.
type Validation struct {
	Valid     bool     `json:"valid"`
	TotalRows int      `json:"total_rows"`
	Columns   []string `json:"columns"`
	Errors    []string `json:"errors,omitempty"`
}

// Parse reads songs from r, requiring Title and Artist columns.
//
// Column matching is case-insensitive. Rows where either value is blank
// are skipped. Returns ErrMissingColumns when a required column is
// absent and ErrEmptySongList when no usable rows remain.
func Parse(r io.Reader, name string) ([]models.Song, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no header row", shared.ErrInvalidInput, name)
	}

	titleIdx, artistIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "title":
			titleIdx = i
		case "artist":
			artistIdx = i
		}
	}

	if titleIdx < 0 || artistIdx < 0 {
		return nil, fmt.Errorf("%w: %s must have Title and Artist columns, got %v", shared.ErrMissingColumns, name, header)
	}

	var songs []models.Song
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrInvalidInput, name, err)
		}
		if titleIdx >= len(record) || artistIdx >= len(record) {
			continue
		}

		title := strings.TrimSpace(record[titleIdx])
		artist := strings.TrimSpace(record[artistIdx])
		if title == "" || artist == "" {
			continue
		}

		songs = append(songs, models.Song{Title: title, Artist: artist})
	}

	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: %s has no valid song rows", shared.ErrEmptySongList, name)
	}

	return songs, nil
}

// ParseFile reads songs from the CSV file at path.
func ParseFile(path string) ([]models.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", shared.ErrInvalidInput, path, err)
	}
	defer f.Close()

	return Parse(f, filepath.Base(path))
}

// Preview returns up to limit songs from the CSV file at path.
//
// An invalid or unreadable file yields an empty list, never an error;
// previews are advisory.
func Preview(path string, limit int) []models.Song {
	songs, err := ParseFile(path)
	if err != nil {
		return []models.Song{}
	}
	if limit > 0 && len(songs) > limit {
		songs = songs[:limit]
	}
	return songs
}

// Validate checks the format of the CSV file at path without parsing it fully.
func Validate(path string) Validation {
	result := Validation{}

	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to open file: %v", err))
		return result
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, "file has no header row")
		return result
	}
	result.Columns = header

	hasTitle, hasArtist := false, false
	for _, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "title":
			hasTitle = true
		case "artist":
			hasArtist = true
		}
	}
	if !hasTitle {
		result.Errors = append(result.Errors, "missing Title column")
	}
	if !hasArtist {
		result.Errors = append(result.Errors, "missing Artist column")
	}

	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("read error: %v", err))
			return result
		}
		result.TotalRows++
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ListFiles returns the CSV files in folder, sorted by name.
func ListFiles(folder string) ([]FileInfo, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read folder %s: %v", shared.ErrInvalidInput, folder, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: entry.Name(), SizeBytes: info.Size()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// DefaultPlaylistName derives a playlist name from a CSV filename.
//
// "my_songs.csv" becomes "Playlist from my_songs".
func DefaultPlaylistName(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return fmt.Sprintf("Playlist from %s", stem)
}

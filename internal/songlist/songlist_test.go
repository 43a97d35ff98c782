package songlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytpl/internal/shared"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test csv: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	t.Run("parses valid rows", func(t *testing.T) {
		input := "Title,Artist\nBohemian Rhapsody,Queen\nImagine,John Lennon\n"
		songs, err := Parse(strings.NewReader(input), "songs.csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Title != "Bohemian Rhapsody" || songs[0].Artist != "Queen" {
			t.Errorf("unexpected first song: %+v", songs[0])
		}
	})

	t.Run("preserves input order", func(t *testing.T) {
		input := "Title,Artist\nc,1\na,2\nb,3\n"
		songs, err := Parse(strings.NewReader(input), "songs.csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs[0].Title != "c" || songs[1].Title != "a" || songs[2].Title != "b" {
			t.Errorf("expected file order preserved, got %+v", songs)
		}
	})

	t.Run("column matching is case-insensitive", func(t *testing.T) {
		input := "title,ARTIST\nsong,band\n"
		songs, err := Parse(strings.NewReader(input), "songs.csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 1 {
			t.Errorf("expected 1 song, got %d", len(songs))
		}
	})

	t.Run("skips rows missing either field", func(t *testing.T) {
		input := "Title,Artist\nkeep,me\n,no title\nno artist,\n  ,  \nalso keep,this\n"
		songs, err := Parse(strings.NewReader(input), "songs.csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 2 {
			t.Errorf("expected 2 songs after skipping, got %d", len(songs))
		}
	})

	t.Run("extra columns are ignored", func(t *testing.T) {
		input := "Album,Title,Year,Artist\nx,song,1999,band\n"
		songs, err := Parse(strings.NewReader(input), "songs.csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs[0].Title != "song" || songs[0].Artist != "band" {
			t.Errorf("unexpected song: %+v", songs[0])
		}
	})

	t.Run("missing required column", func(t *testing.T) {
		input := "Name,Artist\nsong,band\n"
		_, err := Parse(strings.NewReader(input), "songs.csv")
		if !errors.Is(err, shared.ErrMissingColumns) {
			t.Errorf("expected ErrMissingColumns, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""), "songs.csv")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("header only", func(t *testing.T) {
		_, err := Parse(strings.NewReader("Title,Artist\n"), "songs.csv")
		if !errors.Is(err, shared.ErrEmptySongList) {
			t.Errorf("expected ErrEmptySongList, got %v", err)
		}
	})
}

func TestParseFile(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		path := writeCSV(t, "songs.csv", "Title,Artist\na,b\n")
		songs, err := ParseFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 1 {
			t.Errorf("expected 1 song, got %d", len(songs))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ParseFile("/nonexistent/songs.csv"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestPreview(t *testing.T) {
	t.Run("limits results", func(t *testing.T) {
		path := writeCSV(t, "songs.csv", "Title,Artist\na,1\nb,2\nc,3\n")
		songs := Preview(path, 2)
		if len(songs) != 2 {
			t.Errorf("expected 2 songs, got %d", len(songs))
		}
	})

	t.Run("invalid format yields empty list", func(t *testing.T) {
		path := writeCSV(t, "bad.csv", "Name,Band\na,b\n")
		songs := Preview(path, 10)
		if songs == nil {
			t.Fatal("expected empty slice, got nil")
		}
		if len(songs) != 0 {
			t.Errorf("expected no songs, got %d", len(songs))
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeCSV(t, "songs.csv", "Title,Artist\na,b\nc,d\n")
		v := Validate(path)
		if !v.Valid {
			t.Errorf("expected valid, got errors %v", v.Errors)
		}
		if v.TotalRows != 2 {
			t.Errorf("expected 2 rows, got %d", v.TotalRows)
		}
	})

	t.Run("missing columns reported", func(t *testing.T) {
		path := writeCSV(t, "bad.csv", "Name,Band\na,b\n")
		v := Validate(path)
		if v.Valid {
			t.Error("expected invalid")
		}
		if len(v.Errors) != 2 {
			t.Errorf("expected 2 column errors, got %v", v.Errors)
		}
	})
}

func TestListFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("Title,Artist\n"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	files, err := ListFiles(tmpDir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 csv files, got %d", len(files))
	}
	if files[0].Name != "a.CSV" || files[1].Name != "b.csv" {
		t.Errorf("expected sorted csv files, got %+v", files)
	}
}

func TestDefaultPlaylistName(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"my_songs.csv", "Playlist from my_songs"},
		{"/data/lists/road trip.csv", "Playlist from road trip"},
		{"plain", "Playlist from plain"},
	}

	for _, tc := range cases {
		if got := DefaultPlaylistName(tc.filename); got != tc.want {
			t.Errorf("DefaultPlaylistName(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

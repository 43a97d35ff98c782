package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytpl/internal/shared"
	tu "github.com/desertthunder/ytpl/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			youtube := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "config.toml",
				Logger:     logger,
				Output:     output,
				YouTube:    youtube,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.youtube != youtube {
				t.Error("expected youtube to be set")
			}
			if runner.configPath != "config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: nil})

			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("resolveCSV", func(t *testing.T) {
		t.Run("existing path is used directly", func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "direct.csv")
			if err := os.WriteFile(path, []byte("Title,Artist\n"), 0o644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			runner := NewRunner(RunnerOpts{})
			if got := runner.resolveCSV(path); got != path {
				t.Errorf("expected %s, got %s", path, got)
			}
		})

		t.Run("bare name resolves into songs folder", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Songs.Folder = "/music/lists"
			runner := NewRunner(RunnerOpts{Config: config})

			if got := runner.resolveCSV("mix.csv"); got != filepath.Join("/music/lists", "mix.csv") {
				t.Errorf("unexpected resolved path %s", got)
			}
		})
	})

	t.Run("confirm", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			want  bool
		}{
			{"yes", "y\n", true},
			{"yes word", "yes\n", true},
			{"no", "n\n", false},
			{"empty", "\n", false},
			{"eof", "", false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				runner := NewRunner(RunnerOpts{
					Input:  strings.NewReader(tc.input),
					Output: &bytes.Buffer{},
				})

				if got := runner.confirm("Proceed?"); got != tc.want {
					t.Errorf("expected %v, got %v", tc.want, got)
				}
			})
		}
	})
}

func TestCreateCommand(t *testing.T) {
	t.Run("dry run matches songs without mutating", func(t *testing.T) {
		tmpDir := t.TempDir()
		csvPath := filepath.Join(tmpDir, "songs.csv")
		csv := "Title,Artist\nBohemian Rhapsody,Queen\nKarma Police,Radiohead\n"
		if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
			t.Fatalf("failed to write csv: %v", err)
		}

		config := shared.DefaultConfig()
		config.Songs.Folder = tmpDir
		config.Database.Path = filepath.Join(tmpDir, "runs.db")
		config.Playlist.PacingSeconds = 0

		youtube := &tu.MockService{}
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config:  config,
			YouTube: youtube,
			Output:  output,
		})

		app := &cli.Command{Name: "ytpl", Commands: runner.register()}
		err := app.Run(context.Background(), []string{"ytpl", "create", "--dry-run", "--yes", "songs.csv"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if youtube.CreateCalls != 0 || youtube.AddCalls != 0 {
			t.Errorf("expected no mutating calls, got create=%d add=%d", youtube.CreateCalls, youtube.AddCalls)
		}

		out := output.String()
		if !strings.Contains(out, "2 added") {
			t.Errorf("expected both songs added in output, got:\n%s", out)
		}
		if !strings.Contains(out, "(demo)") {
			t.Errorf("expected demo label in output, got:\n%s", out)
		}

		tu.AssertFileExists(t, config.Database.Path)
	})

	t.Run("missing file argument", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		app := &cli.Command{Name: "ytpl", Commands: runner.register()}
		err := app.Run(context.Background(), []string{"ytpl", "create", "--yes"})
		if err == nil {
			t.Error("expected error without a file argument")
		}
	})
}

func TestQuotaCommand(t *testing.T) {
	run := func(t *testing.T, args ...string) string {
		t.Helper()
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		app := &cli.Command{Name: "ytpl", Commands: runner.register()}
		if err := app.Run(context.Background(), append([]string{"ytpl", "quota"}, args...)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		return output.String()
	}

	t.Run("assumes an 0.8 success rate by default", func(t *testing.T) {
		out := run(t, "--count", "10")

		if !strings.Contains(out, "Add: 400 units") {
			t.Errorf("expected 400 add units at the default rate, got:\n%s", out)
		}
		if !strings.Contains(out, "Total: 1450 units") {
			t.Errorf("expected 1450 total units, got:\n%s", out)
		}
	})

	t.Run("demo estimate carries no write costs", func(t *testing.T) {
		out := run(t, "--count", "10", "--dry-run")

		if !strings.Contains(out, "Create: 0 units") || !strings.Contains(out, "Add: 0 units") {
			t.Errorf("expected no create or add units, got:\n%s", out)
		}
		if !strings.Contains(out, "Total: 1000 units") {
			t.Errorf("expected 1000 total units, got:\n%s", out)
		}
	})
}

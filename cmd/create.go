package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/ytpl/internal/formatter"
	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/repositories"
	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/desertthunder/ytpl/internal/songlist"
	"github.com/desertthunder/ytpl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Create builds a playlist from a CSV file of songs.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	file := cmd.StringArg("file")
	if file == "" {
		return fmt.Errorf("%w: a CSV file is required", shared.ErrMissingArgument)
	}

	path := r.resolveCSV(file)
	songs, err := songlist.ParseFile(path)
	if err != nil {
		return err
	}

	privacy, err := models.ParsePrivacy(cmd.String("privacy"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidPrivacy, err)
	}

	name := cmd.String("name")
	if name == "" {
		name = songlist.DefaultPlaylistName(path)
	}

	dryRun := cmd.Bool("dry-run")
	estimate := tasks.EstimateQuota(len(songs), 1.0, !dryRun)

	r.writePlain("Songs: %d\n", len(songs))
	r.writePlain("Quota: %d units (%.1f%% of the daily limit)\n", estimate.TotalUnits, estimate.PercentOfDailyLimit)
	if !estimate.FitsInOneDay {
		r.writePlain("Warning: this run needs roughly %.1f days of quota\n", estimate.DaysNeeded)
	}

	if !dryRun && !cmd.Bool("yes") {
		if !r.confirm(fmt.Sprintf("Create playlist '%s' with %d songs?", name, len(songs))) {
			r.writePlain("Aborted.\n")
			return nil
		}
	}

	r.logger.Info("starting playlist run", "file", path, "songs", len(songs), "dry_run", dryRun)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.SearchSongs:
				r.writePlain("   %s\n", update.Message)
			case tasks.AddVideos:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	opts := tasks.RunOpts{
		Name:        name,
		Description: cmd.String("description"),
		Privacy:     privacy,
		DryRun:      dryRun,
		MaxResults:  r.config.Playlist.MaxSearchResults,
		SourceFile:  filepath.Base(path),
	}

	summary, err := r.engine.Run(ctx, progressCh, songs, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Playlist Complete!")
	r.writePlain("Playlist: %s\n", summary.PlaylistName)
	if summary.PlaylistURL != "" {
		r.writePlain("URL: %s\n", summary.PlaylistURL)
	}
	r.writePlain("Songs: %d total, %d added, %d duplicates, %d not found\n",
		summary.TotalSongs, len(summary.Added), len(summary.Duplicates), len(summary.NotFound))

	if len(summary.NotFound) > 0 {
		r.writePlain("\nCould not match %d songs:\n", len(summary.NotFound))
		for _, song := range summary.NotFound {
			r.writePlain("  - %s - %s\n", song.Artist, song.Title)
		}
	}

	r.recordRun(ctx, summary, filepath.Base(path))

	if outputPath := cmd.String("output"); outputPath != "" {
		if err := formatter.WriteExport(summary, cmd.String("format"), outputPath); err != nil {
			return err
		}
		r.writePlain("\nSummary written to %s\n", outputPath)
	}

	if cmd.Bool("write-missing") {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		files, err := formatter.WriteMissing(summary, base)
		if err != nil {
			return err
		}
		for _, f := range files {
			r.writePlain("Wrote %s\n", f)
		}
	}

	return nil
}

// resolveCSV treats the argument as a path first and a songs-folder
// entry second.
func (r *Runner) resolveCSV(file string) string {
	if _, err := os.Stat(file); err == nil {
		return file
	}
	return r.config.SongPath(file)
}

// confirm prompts for a yes/no answer on the runner's input stream.
func (r *Runner) confirm(prompt string) bool {
	r.writePlain("%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// recordRun persists the summary to run history. Failures are logged,
// never fatal; the playlist already exists by this point.
func (r *Runner) recordRun(ctx context.Context, summary *models.PlaylistSummary, sourceFile string) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
		return
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("failed to migrate run history", "error", err)
		return
	}

	if _, err := repositories.NewRunRepository(db).RecordSummary(ctx, summary, sourceFile); err != nil {
		r.logger.Warn("failed to record run", "error", err)
	}
}

// createCommand handles playlist creation from CSV files.
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a YouTube playlist from a CSV song list",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name (default: derived from the filename)",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Playlist description",
			},
			&cli.StringFlag{
				Name:  "privacy",
				Usage: "Playlist privacy (private, public, unlisted)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Search and match songs without creating anything",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the run summary to a file",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Summary format (txt, markdown, json)",
				Value: "txt",
			},
			&cli.BoolFlag{
				Name:  "write-missing",
				Usage: "Write unmatched and duplicate songs to CSV files",
			},
		},
		Action: r.Create,
	}
}

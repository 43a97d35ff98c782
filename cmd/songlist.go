package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/desertthunder/ytpl/internal/songlist"
	"github.com/urfave/cli/v3"
)

// Preview shows the first rows of a CSV file plus a format check.
func (r *Runner) Preview(ctx context.Context, cmd *cli.Command) error {
	file := cmd.StringArg("file")
	if file == "" {
		return fmt.Errorf("%w: a CSV file is required", shared.ErrMissingArgument)
	}

	path := r.resolveCSV(file)
	validation := songlist.Validate(path)
	songs := songlist.Preview(path, int(cmd.Int("limit")))

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"file":       path,
			"validation": validation,
			"songs":      songs,
		}, cmd.Bool("pretty"))
	}

	if !validation.Valid {
		r.writePlain("✗ %s is not a valid song list:\n", path)
		for _, e := range validation.Errors {
			r.writePlain("  - %s\n", e)
		}
		return nil
	}

	r.writePlain("✓ %s: %d rows\n\n", path, validation.TotalRows)
	for i, song := range songs {
		r.writePlain("  %d. %s - %s\n", i+1, song.Artist, song.Title)
	}
	if validation.TotalRows > len(songs) {
		r.writePlain("  ... and %d more\n", validation.TotalRows-len(songs))
	}

	return nil
}

// List shows the CSV files available in the songs folder.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	folder := cmd.String("folder")
	if folder == "" {
		folder = r.config.Songs.Folder
	}

	files, err := songlist.ListFiles(folder)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"folder": folder, "files": files}, cmd.Bool("pretty"))
	}

	if len(files) == 0 {
		r.writePlain("No CSV files in %s\n", folder)
		return nil
	}

	r.writePlain("CSV files in %s:\n", folder)
	for _, f := range files {
		r.writePlain("  %s (%.1f KB)\n", f.Name, float64(f.SizeBytes)/1024)
	}

	return nil
}

// previewCommand handles CSV inspection before a run.
func previewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Preview the songs in a CSV file",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of songs to show",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Preview,
	}
}

// listCommand lists CSV files in the configured songs folder.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List CSV files in the songs folder",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "folder",
				Usage: "Folder to scan (default: songs folder from config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.List,
	}
}

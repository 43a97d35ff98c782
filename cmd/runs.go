package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytpl/internal/repositories"
	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runs lists recent playlist runs from the local database.
func (r *Runner) Runs(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to migrate run history: %w", err)
	}

	runs, err := repositories.NewRunRepository(db).List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		r.writePlain("No runs recorded yet.\n")
		return nil
	}

	r.writePlainHeader("Run History")
	for _, run := range runs {
		label := ""
		if run.DryRun {
			label = " (demo)"
		}
		r.writePlain("%s  %s%s\n", run.CreatedAt, run.PlaylistName, label)
		r.writePlain("  source: %s • %d songs • %d added • %d duplicates • %d not found\n",
			run.SourceFile, run.TotalSongs, run.AddedCount, run.DupCount, run.NotFoundCount)
	}

	return nil
}

// runsCommand shows the recorded run history.
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Show recent playlist runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
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
		Action: r.Runs,
	}
}

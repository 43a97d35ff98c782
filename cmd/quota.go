package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/desertthunder/ytpl/internal/songlist"
	"github.com/desertthunder/ytpl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Quota estimates API quota usage for a run.
func (r *Runner) Quota(ctx context.Context, cmd *cli.Command) error {
	count := int(cmd.Int("count"))

	if file := cmd.StringArg("file"); file != "" {
		songs, err := songlist.ParseFile(r.resolveCSV(file))
		if err != nil {
			return err
		}
		count = len(songs)
	}

	if count <= 0 {
		return fmt.Errorf("%w: provide a CSV file or --count", shared.ErrMissingArgument)
	}

	estimate := tasks.EstimateQuota(count, cmd.Float("success-rate"), !cmd.Bool("dry-run"))

	if cmd.Bool("json") {
		return r.writeJSON(estimate, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Quota Estimate")
	r.writePlain("Songs: %d\n", estimate.SongCount)
	r.writePlain("Search: %d units\n", estimate.SearchUnits)
	r.writePlain("Create: %d units\n", estimate.CreateUnits)
	r.writePlain("Add: %d units\n", estimate.AddUnits)
	r.writePlain("Total: %d units (%.1f%% of the %d daily limit)\n",
		estimate.TotalUnits, estimate.PercentOfDailyLimit, estimate.DailyLimit)

	if estimate.FitsInOneDay {
		r.writePlain("✓ Fits within one day of quota\n")
	} else {
		r.writePlain("✗ Needs roughly %.1f days of quota\n", estimate.DaysNeeded)
	}

	return nil
}

// quotaCommand estimates quota cost before running.
func quotaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "quota",
		Usage: "Estimate API quota usage for a CSV file or song count",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "Song count to estimate for (instead of a file)",
			},
			&cli.FloatFlag{
				Name:  "success-rate",
				Usage: "Expected fraction of songs that match (0..1)",
				Value: 0.8,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Estimate a demo run (no create or add costs)",
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
		Action: r.Quota,
	}
}

package main

import (
	"context"
	"os"

	"github.com/desertthunder/ytpl/internal/songlist"
	"github.com/urfave/cli/v3"
)

// SelfTest checks the local setup: config, songs folder, credentials,
// and optionally live API connectivity.
func (r *Runner) SelfTest(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Self Test")

	if _, err := os.Stat(r.configPath); err == nil {
		r.writePlain("✓ Config file: %s\n", r.configPath)
	} else {
		r.writePlain("✗ Config file not found (using defaults); run 'ytpl setup database' to create one\n")
	}

	if info, err := os.Stat(r.config.Songs.Folder); err == nil && info.IsDir() {
		files, _ := songlist.ListFiles(r.config.Songs.Folder)
		r.writePlain("✓ Songs folder: %s (%d CSV files)\n", r.config.Songs.Folder, len(files))
	} else {
		r.writePlain("✗ Songs folder missing: %s\n", r.config.Songs.Folder)
	}

	if r.cred == nil {
		r.writePlain("✗ No credentials configured (set an API key or OAuth client in config.toml)\n")
		return nil
	}

	if r.cred.CanMutate() {
		r.writePlain("✓ Credential: OAuth (can create playlists)\n")
	} else {
		r.writePlain("✓ Credential: API key (search only; playlist creation needs OAuth)\n")
	}

	query := cmd.String("search")
	if query == "" {
		r.writePlain("  Skipping live API check (use --search \"artist song\" to test)\n")
		return nil
	}
	if r.youtube == nil {
		r.writePlain("✗ YouTube service not initialized\n")
		return nil
	}

	videos, err := r.youtube.SearchVideos(ctx, query, 1)
	if err != nil {
		r.writePlain("✗ Search failed: %v\n", err)
		return nil
	}
	if len(videos) == 0 {
		r.writePlain("✗ Search returned no results for %q\n", query)
		return nil
	}

	r.writePlain("✓ Search works: %q → %s (%s)\n", query, videos[0].Title, videos[0].ChannelTitle)
	return nil
}

// testCommand verifies local setup and API connectivity.
func testCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Check configuration, credentials, and API connectivity",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "search",
				Usage: "Run a live search with this query",
			},
		},
		Action: r.SelfTest,
	}
}

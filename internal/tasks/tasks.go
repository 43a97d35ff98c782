// package tasks implements the playlist reconciliation pipeline.
//
// The core abstraction is PlaylistEngine, which turns an ordered song
// list into a remote playlist: each song is searched, matched,
// deduplicated, and added, and every input song lands in exactly one of
// the summary's Added, Duplicates, or NotFound buckets. Operations emit
// progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/services"
	"github.com/desertthunder/ytpl/internal/shared"
	"golang.org/x/time/rate"
)

// RunOpts contains options for a playlist run.
type RunOpts struct {
	Name        string         // Playlist name (required; callers derive a default from the source file)
	Description string         // Playlist description
	Privacy     models.Privacy // Playlist visibility (default private)
	DryRun      bool           // Demo mode: classify without creating or adding
	MaxResults  int            // Search result bound per song
	SourceFile  string         // Originating CSV filename, recorded in the summary description
}

// Engine defines the playlist reconciliation operation.
type Engine interface {
	// Run processes songs in order and returns the outcome summary.
	Run(ctx context.Context, progress chan<- ProgressUpdate, songs []models.Song, opts RunOpts) (*models.PlaylistSummary, error)
}

// PlaylistEngine implements Engine against a [services.Service].
type PlaylistEngine struct {
	youtube services.Service
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewPlaylistEngine creates a PlaylistEngine.
//
// pacingSeconds is the cooperative inter-song delay; zero or negative
// disables pacing.
func NewPlaylistEngine(youtube services.Service, pacingSeconds float64, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if pacingSeconds > 0 {
		limiter = rate.NewLimiter(rate.Limit(1/pacingSeconds), 1)
	}

	return &PlaylistEngine{
		youtube: youtube,
		limiter: limiter,
		logger:  logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run processes songs in their input order and classifies each one.
//
// In Create mode the playlist is created first; a creation failure
// aborts the run with zero songs classified. Per-song failures degrade
// that song to NotFound and never abort the loop.
func (e *PlaylistEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, songs []models.Song, opts RunOpts) (*models.PlaylistSummary, error) {
	if e.youtube == nil {
		return nil, fmt.Errorf("%w: YouTube service not initialized", shared.ErrServiceUnavailable)
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: nothing to process", shared.ErrEmptySongList)
	}
	if opts.Name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}
	if !opts.DryRun && !e.youtube.CanMutate() {
		// Rejected before any search call
		return nil, fmt.Errorf("%w: playlist creation requires an OAuth credential", shared.ErrReadOnlyCredential)
	}

	name := opts.Name
	if opts.DryRun {
		name += " (demo)"
	}

	summary := &models.PlaylistSummary{
		PlaylistName: name,
		TotalSongs:   len(songs),
		Added:        []models.Song{},
		Duplicates:   []models.Song{},
		NotFound:     []models.Song{},
		DryRun:       opts.DryRun,
	}

	description := opts.Description
	if description == "" && opts.SourceFile != "" {
		description = fmt.Sprintf("Playlist created from CSV file: %s", opts.SourceFile)
	}

	var playlist *models.Playlist
	if !opts.DryRun {
		e.sendProgress(progress, creatingPlaylistUpdate(name))

		created, err := e.youtube.CreatePlaylist(ctx, name, description, opts.Privacy)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreateFailed, err)
		}

		playlist = created
		summary.PlaylistID = playlist.ID
		summary.PlaylistURL = playlist.URL
		e.sendProgress(progress, createdPlaylistUpdate(playlist))
	}

	total := len(songs)
	usedIDs := make(map[string]bool)

	for i, song := range songs {
		// Pacing applies between remote-bearing iterations, never before the first
		if i > 0 && e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return summary, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
			}
		}

		e.sendProgress(progress, searchingSongUpdate(i+1, total, song))

		video, err := e.youtube.FindBestMatch(ctx, song.Title, song.Artist, opts.MaxResults)
		if err != nil {
			e.logger.Debug("no match", "song", song.String(), "err", err)
			summary.NotFound = append(summary.NotFound, song)
			e.sendProgress(progress, songNotFoundUpdate(i+1, total, song))
			continue
		}

		if usedIDs[video.ID] {
			summary.Duplicates = append(summary.Duplicates, song)
			e.sendProgress(progress, songDuplicateUpdate(i+1, total, song))
			continue
		}

		if opts.DryRun {
			usedIDs[video.ID] = true
			summary.Added = append(summary.Added, song)
			e.sendProgress(progress, songAddedUpdate(i+1, total, song))
			continue
		}

		status, err := e.youtube.AddToPlaylist(ctx, playlist.ID, video.ID)
		switch {
		case err == nil && status == services.StatusAdded:
			usedIDs[video.ID] = true
			summary.Added = append(summary.Added, song)
			e.sendProgress(progress, songAddedUpdate(i+1, total, song))
		case status == services.StatusAlreadyPresent:
			// The id stays out of the used set; it was never committed here
			summary.Duplicates = append(summary.Duplicates, song)
			e.sendProgress(progress, songDuplicateUpdate(i+1, total, song))
		default:
			e.logger.Warn("failed to add video", "song", song.String(), "err", err)
			if err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", song, err))
			}
			summary.NotFound = append(summary.NotFound, song)
			e.sendProgress(progress, songNotFoundUpdate(i+1, total, song))
		}
	}

	e.sendProgress(progress, summaryUpdate(summary))
	return summary, nil
}

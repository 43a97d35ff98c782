// package services defines interface Service for interacting with the YouTube Data API
package services

import (
	"context"

	"github.com/desertthunder/ytpl/internal/models"
)

// AddStatus is the outcome of inserting a video into a playlist.
type AddStatus int

const (
	// StatusAdded means the video was inserted.
	StatusAdded AddStatus = iota
	// StatusAlreadyPresent means the API reported the video is already
	// in the playlist.
	StatusAlreadyPresent
	// StatusFailed means the insert failed for any other reason.
	StatusFailed
)

func (s AddStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusAlreadyPresent:
		return "already_present"
	case StatusFailed:
		return "failed"
	default:
		return ""
	}
}

// Service defines the operations the playlist pipeline needs from YouTube.
type Service interface {
	// SearchVideos runs a bounded relevance-ordered video search.
	SearchVideos(ctx context.Context, query string, maxResults int) ([]models.Video, error)

	// FindBestMatch resolves a song to its best video candidate.
	// Returns an error wrapping shared.ErrVideoNotFound when nothing matches.
	FindBestMatch(ctx context.Context, title, artist string, maxResults int) (*models.Video, error)

	// CreatePlaylist creates a new playlist and returns it with its URL.
	CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (*models.Playlist, error)

	// AddToPlaylist inserts a video into a playlist.
	AddToPlaylist(ctx context.Context, playlistID, videoID string) (AddStatus, error)

	// CanMutate reports whether the underlying credential permits writes.
	CanMutate() bool

	// Name returns the service name for logs and summaries.
	Name() string
}

// package models defines the core value types shared across packages.
package models

import "fmt"

// Privacy is the visibility of a created playlist.
type Privacy string

const (
	PrivacyPrivate  Privacy = "private"
	PrivacyPublic   Privacy = "public"
	PrivacyUnlisted Privacy = "unlisted"
)

// ParsePrivacy validates a privacy string and returns the typed value.
func ParsePrivacy(s string) (Privacy, error) {
	switch Privacy(s) {
	case PrivacyPrivate, PrivacyPublic, PrivacyUnlisted:
		return Privacy(s), nil
	case "":
		return PrivacyPrivate, nil
	default:
		return "", fmt.Errorf("invalid privacy %q (must be private, public, or unlisted)", s)
	}
}

// Song is a single row from a song list: the title and primary artist.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// String renders the song as "Artist - Title" for logs and summaries.
func (s Song) String() string {
	return fmt.Sprintf("%s - %s", s.Artist, s.Title)
}

// Video is a YouTube search result candidate.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
}

// Playlist is a created (or simulated) YouTube playlist.
type Playlist struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Privacy     Privacy `json:"privacy"`
	URL         string  `json:"url"`
}

// PlaylistSummary is the outcome report of a playlist run.
//
// Added, Duplicates, and NotFound partition the input songs and
// preserve their original order.
type PlaylistSummary struct {
	PlaylistID   string   `json:"playlist_id,omitempty"`
	PlaylistName string   `json:"playlist_name"`
	PlaylistURL  string   `json:"playlist_url,omitempty"`
	TotalSongs   int      `json:"total_songs"`
	Added        []Song   `json:"added"`
	Duplicates   []Song   `json:"duplicates"`
	NotFound     []Song   `json:"not_found"`
	DryRun       bool     `json:"dry_run"`
	Errors       []string `json:"errors,omitempty"`
}

// AddedCount returns the number of songs classified as added.
func (s *PlaylistSummary) AddedCount() int { return len(s.Added) }

// SuccessRate returns added songs as a fraction of the total input.
func (s *PlaylistSummary) SuccessRate() float64 {
	if s.TotalSongs == 0 {
		return 0
	}
	return float64(len(s.Added)) / float64(s.TotalSongs)
}

// QuotaEstimate is a projection of YouTube Data API quota usage for a run.
type QuotaEstimate struct {
	SongCount           int     `json:"song_count"`
	SearchUnits         int     `json:"search_units"`
	CreateUnits         int     `json:"create_units"`
	AddUnits            int     `json:"add_units"`
	TotalUnits          int     `json:"total_units"`
	DailyLimit          int     `json:"daily_limit"`
	PercentOfDailyLimit float64 `json:"percent_of_daily_limit"`
	FitsInOneDay        bool    `json:"fits_in_one_day"`
	DaysNeeded          float64 `json:"days_needed"`
}

// PlaylistRun is a persisted record of a completed run.
type PlaylistRun struct {
	ID            string `json:"id"`
	SourceFile    string `json:"source_file"`
	PlaylistID    string `json:"playlist_id,omitempty"`
	PlaylistName  string `json:"playlist_name"`
	TotalSongs    int    `json:"total_songs"`
	AddedCount    int    `json:"added_count"`
	DupCount      int    `json:"dup_count"`
	NotFoundCount int    `json:"not_found_count"`
	DryRun        bool   `json:"dry_run"`
	CreatedAt     string `json:"created_at"`
}

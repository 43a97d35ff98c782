// YouTube Data API v3 implementation of [Service]
//
// Response types based on https://developers.google.com/youtube/v3/docs
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpl/internal/auth"
	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/shared"
)

const (
	youtubeBaseURL    = "https://www.googleapis.com/youtube/v3"
	playlistURLFormat = "https://www.youtube.com/playlist?list=%s"

	// reasonAlreadyInPlaylist is the structured API error reason for a
	// duplicate playlist insert (HTTP 409).
	reasonAlreadyInPlaylist = "videoAlreadyInPlaylist"
)

type searchID struct {
	VideoID string `json:"videoId"`
}

type searchSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

type searchItem struct {
	ID      searchID      `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type playlistStatus struct {
	PrivacyStatus string `json:"privacyStatus"`
}

type playlistSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type playlistResource struct {
	ID      string          `json:"id,omitempty"`
	Snippet playlistSnippet `json:"snippet"`
	Status  playlistStatus  `json:"status"`
}

type resourceID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

type playlistItemSnippet struct {
	PlaylistID string     `json:"playlistId"`
	ResourceID resourceID `json:"resourceId"`
}

type playlistItemResource struct {
	Snippet playlistItemSnippet `json:"snippet"`
}

type apiErrorDetail struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type apiErrorBody struct {
	Error struct {
		Code    int              `json:"code"`
		Message string           `json:"message"`
		Errors  []apiErrorDetail `json:"errors"`
	} `json:"error"`
}

// RequestError is an error response from the YouTube Data API with its
// structured reason preserved.
type RequestError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *RequestError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube API error: status %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube API error: status %d: %s", e.StatusCode, e.Message)
}

func (e *RequestError) Unwrap() error { return shared.ErrAPIRequest }

// YouTubeService implements [Service] against the YouTube Data API v3.
//
// Authorization comes from the injected [auth.Credential]: either an
// API key appended as a query parameter or an OAuth-backed HTTP client.
type YouTubeService struct {
	cred    auth.Credential
	baseURL string
	logger  *log.Logger
}

// NewYouTubeService creates a YouTube service using the given credential.
func NewYouTubeService(cred auth.Credential, logger *log.Logger) *YouTubeService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &YouTubeService{
		cred:    cred,
		baseURL: youtubeBaseURL,
		logger:  logger,
	}
}

func (s *YouTubeService) Name() string { return "YouTube" }

// CanMutate reports whether the credential permits playlist writes.
func (s *YouTubeService) CanMutate() bool {
	return s.cred != nil && s.cred.CanMutate()
}

// doRequest performs an authenticated request against the Data API and
// decodes the JSON response into result.
func (s *YouTubeService) doRequest(ctx context.Context, method, endpoint string, params url.Values, body, result any) error {
	if s.cred == nil {
		return fmt.Errorf("%w: no credential configured", shared.ErrNotAuthenticated)
	}

	client, err := s.cred.Client(ctx)
	if err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	if key := s.cred.APIKey(); key != "" {
		params.Set("key", key)
	}

	apiURL := s.baseURL + endpoint + "?" + params.Encode()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError extracts the structured error reason from an API error body.
func (s *YouTubeService) decodeError(resp *http.Response) error {
	reqErr := &RequestError{StatusCode: resp.StatusCode}

	var body apiErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		reqErr.Message = body.Error.Message
		if len(body.Error.Errors) > 0 {
			reqErr.Reason = body.Error.Errors[0].Reason
		}
	}

	return reqErr
}

// SearchVideos runs a bounded search ordered by relevance.
func (s *YouTubeService) SearchVideos(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("order", "relevance")
	params.Set("maxResults", strconv.Itoa(maxResults))

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search", params, nil, &response); err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, models.Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}

	return videos, nil
}

// FindBestMatch resolves a song to its best video candidate.
//
// The query is "<title> <artist>". The first candidate whose title
// contains both the title and the artist (case-insensitive) wins;
// otherwise the top relevance result does. Returns an error wrapping
// [shared.ErrVideoNotFound] when the search comes back empty.
func (s *YouTubeService) FindBestMatch(ctx context.Context, title, artist string, maxResults int) (*models.Video, error) {
	query := strings.TrimSpace(title + " " + artist)
	videos, err := s.SearchVideos(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: %s - %s", shared.ErrVideoNotFound, artist, title)
	}

	wantTitle := strings.ToLower(strings.TrimSpace(title))
	wantArtist := strings.ToLower(strings.TrimSpace(artist))

	for i, video := range videos {
		got := strings.ToLower(video.Title)
		if strings.Contains(got, wantTitle) && strings.Contains(got, wantArtist) {
			s.logger.Debug("matched video", "video", video.Title, "rank", i)
			return &videos[i], nil
		}
	}

	// No candidate satisfied the containment check; trust relevance order
	return &videos[0], nil
}

// CreatePlaylist creates a playlist with the given title, description, and privacy.
func (s *YouTubeService) CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (*models.Playlist, error) {
	if !s.CanMutate() {
		return nil, fmt.Errorf("%w: playlist creation requires OAuth", shared.ErrReadOnlyCredential)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: playlist title is empty", shared.ErrInvalidInput)
	}
	if privacy == "" {
		privacy = models.PrivacyPrivate
	}

	params := url.Values{}
	params.Set("part", "snippet,status")

	body := playlistResource{
		Snippet: playlistSnippet{Title: title, Description: description},
		Status:  playlistStatus{PrivacyStatus: string(privacy)},
	}

	var created playlistResource
	if err := s.doRequest(ctx, http.MethodPost, "/playlists", params, body, &created); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistCreateFailed, err)
	}

	s.logger.Info("playlist created", "id", created.ID, "title", title)
	return &models.Playlist{
		ID:          created.ID,
		Title:       title,
		Description: description,
		Privacy:     privacy,
		URL:         fmt.Sprintf(playlistURLFormat, created.ID),
	}, nil
}

// AddToPlaylist inserts a video into a playlist.
//
// A duplicate insert is not an error: the API's videoAlreadyInPlaylist
// reason maps to [StatusAlreadyPresent].
func (s *YouTubeService) AddToPlaylist(ctx context.Context, playlistID, videoID string) (AddStatus, error) {
	if !s.CanMutate() {
		return StatusFailed, fmt.Errorf("%w: adding videos requires OAuth", shared.ErrReadOnlyCredential)
	}
	if playlistID == "" || videoID == "" {
		return StatusFailed, fmt.Errorf("%w: playlist and video IDs are required", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("part", "snippet")

	body := playlistItemResource{
		Snippet: playlistItemSnippet{
			PlaylistID: playlistID,
			ResourceID: resourceID{Kind: "youtube#video", VideoID: videoID},
		},
	}

	err := s.doRequest(ctx, http.MethodPost, "/playlistItems", params, body, nil)
	if err == nil {
		return StatusAdded, nil
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Reason == reasonAlreadyInPlaylist {
		s.logger.Debug("video already in playlist", "video", videoID)
		return StatusAlreadyPresent, nil
	}

	return StatusFailed, err
}

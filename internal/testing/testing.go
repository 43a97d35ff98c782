// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/services"
)

// MockService is a test double for [services.Service].
//
// Behavior is injected through the function fields; nil fields fall
// back to benign defaults.
type MockService struct {
	SearchFunc func(ctx context.Context, query string, maxResults int) ([]models.Video, error)
	MatchFunc  func(ctx context.Context, title, artist string, maxResults int) (*models.Video, error)
	CreateFunc func(ctx context.Context, title, description string, privacy models.Privacy) (*models.Playlist, error)
	AddFunc    func(ctx context.Context, playlistID, videoID string) (services.AddStatus, error)
	Mutable    bool

	SearchCalls int
	CreateCalls int
	AddCalls    int
}

func (m *MockService) SearchVideos(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
	m.SearchCalls++
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, maxResults)
	}
	return []models.Video{}, nil
}

func (m *MockService) FindBestMatch(ctx context.Context, title, artist string, maxResults int) (*models.Video, error) {
	m.SearchCalls++
	if m.MatchFunc != nil {
		return m.MatchFunc(ctx, title, artist, maxResults)
	}
	return &models.Video{ID: "video_" + title, Title: title + " " + artist}, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (*models.Playlist, error) {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, title, description, privacy)
	}
	return &models.Playlist{
		ID:      "PLmock",
		Title:   title,
		Privacy: privacy,
		URL:     "https://www.youtube.com/playlist?list=PLmock",
	}, nil
}

func (m *MockService) AddToPlaylist(ctx context.Context, playlistID, videoID string) (services.AddStatus, error) {
	m.AddCalls++
	if m.AddFunc != nil {
		return m.AddFunc(ctx, playlistID, videoID)
	}
	return services.StatusAdded, nil
}

func (m *MockService) CanMutate() bool { return m.Mutable }

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpl/internal/auth"
	"github.com/desertthunder/ytpl/internal/models"
	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/desertthunder/ytpl/internal/songlist"
	"github.com/desertthunder/ytpl/internal/tasks"
)

const callbackPage = `<!DOCTYPE html>
<html>
<head><title>Authorization Complete</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
	<h1 style="color: #FF0000;">Authorization Successful</h1>
	<p>You can close this window and return to the application.</p>
</body>
</html>`

// RunStore is the slice of run persistence the API needs.
type RunStore interface {
	RecordSummary(ctx context.Context, summary *models.PlaylistSummary, sourceFile string) (*models.PlaylistRun, error)
	List(ctx context.Context, limit int) ([]models.PlaylistRun, error)
}

// API exposes the playlist pipeline over HTTP.
type API struct {
	config      *shared.Config
	logger      *log.Logger
	cred        auth.Credential
	engine      tasks.Engine
	flow        *auth.HostedFlow
	runs        RunStore
	redirectURI string

	mu     sync.Mutex
	states map[string]struct{}
}

// APIOpts configures an [API]. Zero-value fields fall back to defaults.
type APIOpts struct {
	Config      *shared.Config
	Logger      *log.Logger
	Credential  auth.Credential
	Engine      tasks.Engine
	Flow        *auth.HostedFlow
	Runs        RunStore
	RedirectURI string
}

// NewAPI creates an API handler set from opts.
func NewAPI(opts APIOpts) *API {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.RedirectURI == "" {
		opts.RedirectURI = fmt.Sprintf("http://%s:%d/auth/callback",
			opts.Config.Server.Host, opts.Config.Server.Port)
	}

	return &API{
		config:      opts.Config,
		logger:      opts.Logger,
		cred:        opts.Credential,
		engine:      opts.Engine,
		flow:        opts.Flow,
		runs:        opts.Runs,
		redirectURI: opts.RedirectURI,
		states:      map[string]struct{}{},
	}
}

// Register attaches all API routes to the router.
func (a *API) Register(router Router) {
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(a.Health))
	router.Handle(http.MethodGet, "/list-csv-files", http.HandlerFunc(a.ListCSVFiles))
	router.Handle(http.MethodGet, "/preview-csv", http.HandlerFunc(a.PreviewCSV))
	router.Handle(http.MethodGet, "/quota-estimate", http.HandlerFunc(a.QuotaEstimate))
	router.Handle(http.MethodPost, "/create-from-csv-folder", http.HandlerFunc(a.CreateFromCSVFolder))
	router.Handle(http.MethodGet, "/runs", http.HandlerFunc(a.Runs))
	router.Handle(http.MethodGet, "/auth/login", http.HandlerFunc(a.AuthLogin))
	router.Handle(http.MethodGet, "/auth/callback", http.HandlerFunc(a.AuthCallback))
	router.Handle(http.MethodGet, "/auth/status", http.HandlerFunc(a.AuthStatus))
	router.Handle(http.MethodPost, "/auth/logout", http.HandlerFunc(a.AuthLogout))
}

// Health reports liveness and whether a credential is available.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if cred := a.credential(); cred != nil {
		authenticated = cred.IsAuthenticated(r.Context())
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"service":       "ytpl",
		"authenticated": authenticated,
	})
}

// ListCSVFiles lists the CSV files in the configured songs folder.
func (a *API) ListCSVFiles(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = a.config.Songs.Folder
	}

	files, err := songlist.ListFiles(folder)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"folder": folder, "files": files})
}

// PreviewCSV returns the first rows of a CSV file plus its total count.
func (a *API) PreviewCSV(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		a.writeError(w, fmt.Errorf("%w: filename", shared.ErrMissingArgument))
		return
	}

	limit := queryInt(r, "limit", 5)

	songs, err := a.songsFromFile(filename)
	if err != nil {
		a.writeError(w, err)
		return
	}

	preview := songs
	if limit > 0 && len(preview) > limit {
		preview = preview[:limit]
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"filename": filename,
		"total":    len(songs),
		"songs":    preview,
	})
}

// QuotaEstimate computes a quota projection for a song count or CSV file.
func (a *API) QuotaEstimate(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", 0)
	if filename := r.URL.Query().Get("filename"); filename != "" {
		songs, err := a.songsFromFile(filename)
		if err != nil {
			a.writeError(w, err)
			return
		}
		count = len(songs)
	}
	if count <= 0 {
		a.writeError(w, fmt.Errorf("%w: count or filename", shared.ErrMissingArgument))
		return
	}

	rate := queryFloat(r, "success_rate", 0.8)
	dryRun := queryBool(r, "dry_run")

	a.writeJSON(w, http.StatusOK, tasks.EstimateQuota(count, rate, !dryRun))
}

// CreateFromCSVFolder runs the full pipeline for one CSV file in the songs folder.
func (a *API) CreateFromCSVFolder(w http.ResponseWriter, r *http.Request) {
	if a.engine == nil {
		a.writeError(w, fmt.Errorf("%w: pipeline engine not configured", shared.ErrServiceUnavailable))
		return
	}

	query := r.URL.Query()
	filename := query.Get("filename")
	if filename == "" {
		a.writeError(w, fmt.Errorf("%w: filename", shared.ErrMissingArgument))
		return
	}

	privacy, err := models.ParsePrivacy(query.Get("privacy"))
	if err != nil {
		a.writeError(w, fmt.Errorf("%w: %v", shared.ErrInvalidPrivacy, err))
		return
	}

	songs, err := a.songsFromFile(filename)
	if err != nil {
		a.writeError(w, err)
		return
	}

	name := query.Get("playlist_name")
	if name == "" {
		name = songlist.DefaultPlaylistName(filename)
	}

	opts := tasks.RunOpts{
		Name:       name,
		Privacy:    privacy,
		DryRun:     queryBool(r, "dry_run"),
		MaxResults: a.config.Playlist.MaxSearchResults,
		SourceFile: filename,
	}

	summary, err := a.engine.Run(r.Context(), nil, songs, opts)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if a.runs != nil {
		if _, err := a.runs.RecordSummary(r.Context(), summary, filename); err != nil {
			a.logger.Warn("failed to record run", "error", err)
		}
	}

	a.writeJSON(w, http.StatusCreated, summary)
}

// Runs returns the most recent run history records.
func (a *API) Runs(w http.ResponseWriter, r *http.Request) {
	if a.runs == nil {
		a.writeError(w, fmt.Errorf("%w: run history not configured", shared.ErrServiceUnavailable))
		return
	}

	runs, err := a.runs.List(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		a.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []models.PlaylistRun{}
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// AuthLogin redirects the browser to the provider's consent screen.
func (a *API) AuthLogin(w http.ResponseWriter, r *http.Request) {
	if a.flow == nil {
		a.writeError(w, fmt.Errorf("%w: oauth flow not configured", shared.ErrMissingCredentials))
		return
	}

	state := shared.GenerateID()
	a.mu.Lock()
	a.states[state] = struct{}{}
	a.mu.Unlock()

	http.Redirect(w, r, a.flow.AuthorizationURL(a.redirectURI, state), http.StatusFound)
}

// AuthCallback completes the authorization code exchange.
func (a *API) AuthCallback(w http.ResponseWriter, r *http.Request) {
	if a.flow == nil {
		a.writeError(w, fmt.Errorf("%w: oauth flow not configured", shared.ErrMissingCredentials))
		return
	}

	query := r.URL.Query()
	if errMsg := query.Get("error"); errMsg != "" {
		a.writeError(w, fmt.Errorf("%w: %s", shared.ErrAuthFailed, errMsg))
		return
	}

	state := query.Get("state")
	a.mu.Lock()
	_, known := a.states[state]
	delete(a.states, state)
	a.mu.Unlock()

	if !known {
		a.writeError(w, fmt.Errorf("%w: state mismatch", shared.ErrInvalidArgument))
		return
	}

	if _, err := a.flow.Exchange(r.Context(), query.Get("code"), a.redirectURI); err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, callbackPage)
}

// AuthStatus reports whether the active credential can call the API.
func (a *API) AuthStatus(w http.ResponseWriter, r *http.Request) {
	cred := a.credential()

	authenticated := cred != nil && cred.IsAuthenticated(r.Context())
	canMutate := cred != nil && cred.CanMutate()

	a.writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": authenticated,
		"can_mutate":    canMutate,
	})
}

// AuthLogout revokes the stored token and clears local state.
func (a *API) AuthLogout(w http.ResponseWriter, r *http.Request) {
	cred := a.credential()
	if cred == nil {
		a.writeError(w, fmt.Errorf("%w: no credential configured", shared.ErrMissingCredentials))
		return
	}

	if err := cred.Revoke(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"revoked": true})
}

// songsFromFile resolves filename inside the configured songs folder and parses it.
func (a *API) songsFromFile(filename string) ([]models.Song, error) {
	path := filepath.Join(a.config.Songs.Folder, filename)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, filename)
	}
	return songlist.ParseFile(path)
}

// credential prefers the hosted flow when one is configured.
func (a *API) credential() auth.Credential {
	if a.flow != nil {
		return a.flow
	}
	return a.cred
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err)
	}

	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingColumns),
		errors.Is(err, shared.ErrEmptySongList),
		errors.Is(err, shared.ErrInvalidPrivacy),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidFlag):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrAuthFailed),
		errors.Is(err, shared.ErrReadOnlyCredential),
		errors.Is(err, shared.ErrMissingCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, os.ErrNotExist), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpl/internal/shared"
	"golang.org/x/oauth2"
)

// defaultLoginTimeout bounds the wait for the browser callback before
// falling back to manual code entry.
const defaultLoginTimeout = 3 * time.Minute

// LocalFlow is the interactive OAuth strategy for terminal use.
//
// Login resolves a token in order of preference: a stored valid token,
// a refresh of a stored expired token, then an interactive
// authorization with a loopback redirect listener. When the listener
// cannot deliver a code the user may paste it manually. Login is
// idempotent: an authenticated flow returns immediately.
type LocalFlow struct {
	config      *oauth2.Config
	store       TokenStore
	logger      *log.Logger
	input       io.Reader
	output      io.Writer
	openBrowser func(string) error
	timeout     time.Duration

	mu    sync.Mutex
	token *oauth2.Token
}

// LocalFlowOpts contains configuration options for creating a LocalFlow.
type LocalFlowOpts struct {
	Config      *oauth2.Config
	Store       TokenStore
	Logger      *log.Logger
	Input       io.Reader
	Output      io.Writer
	OpenBrowser func(string) error
	Timeout     time.Duration
}

// NewLocalFlow creates a LocalFlow with the provided options.
func NewLocalFlow(opts LocalFlowOpts) (*LocalFlow, error) {
	if opts.Config == nil || opts.Config.ClientID == "" || opts.Config.ClientSecret == "" {
		return nil, fmt.Errorf("%w: oauth client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultLoginTimeout
	}

	return &LocalFlow{
		config:      opts.Config,
		store:       opts.Store,
		logger:      opts.Logger,
		input:       opts.Input,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
		timeout:     opts.Timeout,
	}, nil
}

func (f *LocalFlow) IsAuthenticated(ctx context.Context) bool {
	_, err := f.ensureToken(ctx)
	return err == nil
}

func (f *LocalFlow) CanMutate() bool { return true }

func (f *LocalFlow) APIKey() string { return "" }

// Client returns an HTTP client backed by the current token.
//
// Does not start an interactive login; call [LocalFlow.Login] first.
func (f *LocalFlow) Client(ctx context.Context) (*http.Client, error) {
	token, err := f.ensureToken(ctx)
	if err != nil {
		return nil, err
	}
	return f.config.Client(ctx, token), nil
}

// ensureToken returns a valid token from memory, the store, or a refresh.
func (f *LocalFlow) ensureToken(ctx context.Context) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.token.Valid() {
		return f.token, nil
	}

	if f.token == nil {
		stored, err := f.store.Load()
		if err != nil {
			return nil, err
		}
		f.token = stored
	}

	if f.token == nil {
		return nil, fmt.Errorf("%w: no stored token, run login", shared.ErrNotAuthenticated)
	}
	if f.token.Valid() {
		return f.token, nil
	}
	if f.token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: stored token expired", shared.ErrNoRefreshToken)
	}

	refreshed, err := f.config.TokenSource(ctx, f.token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	f.token = refreshed
	if err := f.store.Save(refreshed); err != nil {
		f.logger.Warnf("failed to persist refreshed token: %v", err)
	}
	return f.token, nil
}

// Login obtains a usable token, interactively if necessary.
func (f *LocalFlow) Login(ctx context.Context) (*oauth2.Token, error) {
	if token, err := f.ensureToken(ctx); err == nil {
		f.logger.Debug("already authenticated")
		return token, nil
	}

	state := shared.GenerateID()
	authURL := f.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	code, err := f.authorizeInteractive(ctx, authURL, state)
	if err != nil {
		return nil, err
	}

	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}

	f.mu.Lock()
	f.token = token
	f.mu.Unlock()

	if err := f.store.Save(token); err != nil {
		f.logger.Warnf("failed to persist token: %v", err)
	}
	return token, nil
}

// authorizeInteractive opens the browser and waits for the redirect
// callback, falling back to manual code entry when the listener cannot
// be started or times out.
func (f *LocalFlow) authorizeInteractive(ctx context.Context, authURL, state string) (string, error) {
	fmt.Fprintf(f.output, "Opening browser for authorization...\n%s\n", authURL)
	if err := f.openBrowser(authURL); err != nil {
		f.logger.Warnf("failed to open browser: %v", err)
	}

	listener, handler, err := f.startCallbackServer(state)
	if err != nil {
		f.logger.Warnf("failed to start callback listener: %v", err)
		return f.promptForCode()
	}
	defer listener.Close()

	select {
	case result := <-handler.result:
		if result.err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.err)
		}
		return result.code, nil
	case <-time.After(f.timeout):
		f.logger.Warn("timed out waiting for callback")
		return f.promptForCode()
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", shared.ErrTimeout, ctx.Err())
	}
}

// startCallbackServer listens on the redirect URI's host and port and
// serves a one-shot handler on its path.
func (f *LocalFlow) startCallbackServer(state string) (net.Listener, *callbackHandler, error) {
	redirect, err := url.Parse(f.config.RedirectURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redirect URI: %w", err)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, nil, err
	}

	handler := newCallbackHandler(state)
	mux := http.NewServeMux()
	path := redirect.Path
	if path == "" {
		path = "/"
	}
	mux.Handle(path, handler)

	go http.Serve(listener, mux)
	return listener, handler, nil
}

// promptForCode asks the user to paste the authorization code.
func (f *LocalFlow) promptForCode() (string, error) {
	fmt.Fprint(f.output, "Paste the authorization code here: ")
	scanner := bufio.NewScanner(f.input)
	if !scanner.Scan() {
		return "", fmt.Errorf("%w: no code entered", shared.ErrAuthFailed)
	}
	code := strings.TrimSpace(scanner.Text())
	if code == "" {
		return "", fmt.Errorf("%w: no code entered", shared.ErrAuthFailed)
	}
	return code, nil
}

// Revoke revokes the token remotely (best effort) and always deletes local state.
func (f *LocalFlow) Revoke(ctx context.Context) error {
	f.mu.Lock()
	token := f.token
	f.mu.Unlock()

	if token == nil {
		if stored, err := f.store.Load(); err == nil {
			token = stored
		}
	}

	if err := revokeToken(ctx, http.DefaultClient, token); err != nil {
		f.logger.Warnf("remote revocation failed: %v", err)
	}

	f.mu.Lock()
	f.token = nil
	f.mu.Unlock()
	return f.store.Delete()
}

type callbackResult struct {
	code string
	err  error
}

// callbackHandler accepts a single OAuth redirect and delivers the
// authorization code through its result channel.
type callbackHandler struct {
	state  string
	result chan callbackResult
	once   sync.Once
}

func newCallbackHandler(state string) *callbackHandler {
	return &callbackHandler{
		state:  state,
		result: make(chan callbackResult, 1),
	}
}

func (h *callbackHandler) send(result callbackResult) {
	h.once.Do(func() {
		h.result <- result
		close(h.result)
	})
}

func (h *callbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if state := r.URL.Query().Get("state"); state != h.state {
		h.send(callbackResult{err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		h.send(callbackResult{err: fmt.Errorf("authorization failed: %s", errParam)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	h.send(callbackResult{code: code})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #FF0000; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpl/internal/shared"
	"golang.org/x/oauth2"
)

// HostedFlow is the OAuth strategy for the web surface, where the
// redirect lands on a route this application hosts.
//
// AuthorizationURL is a pure computation; Exchange performs the single
// network round trip and persists the result.
type HostedFlow struct {
	config       *oauth2.Config
	store        TokenStore
	logger       *log.Logger
	revokeClient *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// NewHostedFlow creates a HostedFlow with the given oauth2 config and store.
func NewHostedFlow(config *oauth2.Config, store TokenStore) (*HostedFlow, error) {
	if config == nil || config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("%w: oauth client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &HostedFlow{
		config:       config,
		store:        store,
		logger:       shared.NewLogger(nil),
		revokeClient: &http.Client{Timeout: 5 * time.Second},
	}, nil
}

// SetLogger replaces the flow's logger.
func (f *HostedFlow) SetLogger(logger *log.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// AuthorizationURL returns the URL a user visits to grant access.
//
// The caller owns state generation and must verify the same value on
// the callback.
func (f *HostedFlow) AuthorizationURL(redirectURI, state string) string {
	config := *f.config
	if redirectURI != "" {
		config.RedirectURL = redirectURI
	}
	return config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens and persists them.
func (f *HostedFlow) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", shared.ErrInvalidInput)
	}

	config := *f.config
	if redirectURI != "" {
		config.RedirectURL = redirectURI
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}

	f.mu.Lock()
	f.token = token
	f.mu.Unlock()

	if err := f.store.Save(token); err != nil {
		return token, fmt.Errorf("authenticated but failed to persist token: %w", err)
	}
	return token, nil
}

func (f *HostedFlow) IsAuthenticated(ctx context.Context) bool {
	_, err := f.currentToken(ctx)
	return err == nil
}

func (f *HostedFlow) CanMutate() bool { return true }

func (f *HostedFlow) APIKey() string { return "" }

// Client returns an HTTP client backed by the current token.
func (f *HostedFlow) Client(ctx context.Context) (*http.Client, error) {
	token, err := f.currentToken(ctx)
	if err != nil {
		return nil, err
	}
	return f.config.Client(ctx, token), nil
}

// currentToken returns a valid token from memory or the store,
// refreshing when possible.
func (f *HostedFlow) currentToken(ctx context.Context) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.token == nil {
		stored, err := f.store.Load()
		if err != nil {
			return nil, err
		}
		f.token = stored
	}

	if f.token == nil {
		return nil, fmt.Errorf("%w: no stored token", shared.ErrNotAuthenticated)
	}
	if f.token.Valid() {
		return f.token, nil
	}
	if f.token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: stored token cannot be renewed, log in again", shared.ErrTokenExpired)
	}

	refreshed, err := f.config.TokenSource(ctx, f.token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	f.token = refreshed
	if err := f.store.Save(refreshed); err != nil {
		return refreshed, nil
	}
	return f.token, nil
}

// Revoke revokes the token remotely (best effort) and always deletes local state.
func (f *HostedFlow) Revoke(ctx context.Context) error {
	f.mu.Lock()
	token := f.token
	f.mu.Unlock()

	if token == nil {
		if stored, err := f.store.Load(); err == nil {
			token = stored
		}
	}

	// Local state is removed even when remote revocation fails
	if err := revokeToken(ctx, f.revokeClient, token); err != nil {
		f.logger.Warnf("remote revocation failed: %v", err)
	}

	f.mu.Lock()
	f.token = nil
	f.mu.Unlock()

	return f.store.Delete()
}

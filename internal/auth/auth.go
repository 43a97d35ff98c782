// package auth implements credential strategies for the YouTube Data API.
//
// Three strategies satisfy [Credential]: an anonymous API key (read-only),
// a local-redirect OAuth flow for CLI use, and a hosted-redirect OAuth
// flow for the web surface. Tokens persist through an injected
// [TokenStore] so callers choose where credentials live.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/ytpl/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL   = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL  = "https://oauth2.googleapis.com/token"
	googleRevokeURL = "https://oauth2.googleapis.com/revoke"

	// Scope covering playlist creation and item insertion.
	youtubeScope = "https://www.googleapis.com/auth/youtube"
)

// Credential provides authenticated access to the YouTube Data API.
type Credential interface {
	// IsAuthenticated reports whether the credential can currently be used.
	IsAuthenticated(ctx context.Context) bool

	// CanMutate reports whether the credential permits write operations
	// (playlist creation, item insertion).
	CanMutate() bool

	// Client returns an HTTP client that authorizes requests.
	Client(ctx context.Context) (*http.Client, error)

	// APIKey returns the query-parameter key for key-based strategies,
	// or "" when authorization rides on the client.
	APIKey() string

	// Revoke invalidates the credential remotely (best effort) and
	// removes any persisted local state.
	Revoke(ctx context.Context) error
}

// NewOAuthConfig builds the oauth2 config used by both OAuth strategies.
func NewOAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{youtubeScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}
}

// revokeToken posts the refresh (or access) token to Google's revocation
// endpoint. Callers delete local state regardless of the outcome.
func revokeToken(ctx context.Context, client *http.Client, token *oauth2.Token) error {
	if token == nil {
		return nil
	}

	value := token.RefreshToken
	if value == "" {
		value = token.AccessToken
	}
	if value == "" {
		return nil
	}

	form := url.Values{"token": {value}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleRevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: revoke request: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: revoke returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}

package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/ytpl/internal/shared"
)

// APIKeyCredential authenticates with an anonymous API key.
//
// Keys only permit read operations; any mutation attempt fails with
// [shared.ErrReadOnlyCredential] before a request is made.
type APIKeyCredential struct {
	key        string
	httpClient *http.Client
}

// NewAPIKeyCredential creates a read-only credential from an API key.
func NewAPIKeyCredential(key string) (*APIKeyCredential, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: api key is empty", shared.ErrMissingAPIKey)
	}
	return &APIKeyCredential{key: key, httpClient: http.DefaultClient}, nil
}

func (c *APIKeyCredential) IsAuthenticated(ctx context.Context) bool {
	return c.key != ""
}

func (c *APIKeyCredential) CanMutate() bool { return false }

func (c *APIKeyCredential) Client(ctx context.Context) (*http.Client, error) {
	return c.httpClient, nil
}

func (c *APIKeyCredential) APIKey() string { return c.key }

// Revoke is a no-op: API keys have no local state and are managed in
// the Google console, not via the revocation endpoint.
func (c *APIKeyCredential) Revoke(ctx context.Context) error {
	return nil
}

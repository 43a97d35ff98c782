package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the interactive OAuth flow and stores the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.localFlow()
	if err != nil {
		return err
	}

	r.logger.Info("starting OAuth login")

	if _, err := flow.Login(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Authentication successful\n")
	r.writePlain("Tokens saved to %s\n", r.config.Credentials.YouTube.TokenPath)
	return nil
}

// AuthStatus reports the current credential and its capabilities.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.cred == nil {
		r.writePlain("✗ No credentials configured\n")
		r.writePlain("Set an API key or OAuth client in config.toml, then run 'ytpl auth login'\n")
		return nil
	}

	if r.cred.IsAuthenticated(ctx) {
		r.writePlain("✓ Authenticated\n")
	} else {
		r.writePlain("✗ Not authenticated; run 'ytpl auth login'\n")
	}

	if r.cred.CanMutate() {
		r.writePlain("Playlist creation: ✓ available\n")
	} else {
		r.writePlain("Playlist creation: ✗ read-only credential (API key)\n")
	}

	return nil
}

// AuthLogout revokes the stored token and deletes it locally.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.localFlow()
	if err != nil {
		return err
	}

	if err := flow.Revoke(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Logged out; local tokens removed\n")
	return nil
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage YouTube authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with YouTube using OAuth2",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Revoke and delete stored tokens",
				Action: r.AuthLogout,
			},
		},
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/ytpl/internal/auth"
	"github.com/desertthunder/ytpl/internal/repositories"
	"github.com/desertthunder/ytpl/internal/server"
	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the HTTP API for the playlist pipeline.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := int(cmd.Int("port"))
	if port == 0 {
		port = r.config.Server.Port
	}

	opts := server.APIOpts{
		Config:     r.config,
		Logger:     r.logger,
		Credential: r.cred,
		Engine:     r.engine,
	}

	yt := r.config.Credentials.YouTube
	if yt.ClientID != "" && yt.ClientSecret != "" {
		flow, err := auth.NewHostedFlow(
			auth.NewOAuthConfig(yt.ClientID, yt.ClientSecret, yt.RedirectURI),
			auth.NewFileStore(yt.TokenPath),
		)
		if err != nil {
			return err
		}
		flow.SetLogger(r.logger)
		opts.Flow = flow
	}

	if db, err := shared.NewDatabase(r.config.Database.Path); err == nil {
		defer db.Close()
		if err := shared.RunMigrations(db); err == nil {
			opts.Runs = repositories.NewRunRepository(db)
		} else {
			r.logger.Warn("run history unavailable", "error", err)
		}
	} else {
		r.logger.Warn("run history unavailable", "error", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	server.NewAPI(opts).Register(router)

	srv := server.NewHTTPServer(host, port, router)
	r.logger.Info("starting server", "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// serveCommand runs the HTTP API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (default: server host from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (default: server port from config)",
			},
		},
		Action: r.Serve,
	}
}

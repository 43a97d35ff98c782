package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpl/internal/auth"
	"github.com/desertthunder/ytpl/internal/services"
	"github.com/desertthunder/ytpl/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	config.ApplyEnv()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	cred := buildCredential(config, logger)
	youtubeService := services.NewYouTubeService(cred, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		Credential: cred,
		YouTube:    youtubeService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "ytpl",
		Usage:    "Create YouTube playlists from CSV song lists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// buildCredential picks the strongest credential the config supports.
//
// OAuth client credentials win over an API key because only OAuth can
// create playlists; an API key still covers search and preview.
func buildCredential(config *shared.Config, logger *log.Logger) auth.Credential {
	yt := config.Credentials.YouTube

	if yt.ClientID != "" && yt.ClientSecret != "" {
		flow, err := auth.NewLocalFlow(auth.LocalFlowOpts{
			Config: auth.NewOAuthConfig(yt.ClientID, yt.ClientSecret, yt.RedirectURI),
			Store:  auth.NewFileStore(yt.TokenPath),
			Logger: logger,
		})
		if err == nil {
			return flow
		}
		logger.Warn("failed to build oauth flow", "error", err)
	}

	if yt.APIKey != "" {
		key, err := auth.NewAPIKeyCredential(yt.APIKey)
		if err == nil {
			return key
		}
		logger.Warn("failed to build api key credential", "error", err)
	}

	return nil
}

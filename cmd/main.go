package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"crate/internal/services"
	"crate/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService *services.SpotifyService
	if config.Spotify.ClientID != "" && config.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(context.Background(), config.Spotify.ClientID, config.Spotify.ClientSecret); err == nil {
			spotifyService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "crate",
		Usage:    "Catalog a vinyl collection and explore its musician network",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

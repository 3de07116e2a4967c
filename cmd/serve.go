package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"crate/internal/server"
	"crate/internal/services"
	"crate/internal/shared"
)

// Serve runs the collection API server until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = config.Server.Addr()
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	opts := server.Opts{DB: db, Logger: r.logger}

	if config.Discogs.Token != "" {
		discogs, err := services.NewDiscogsService(config.Discogs.Token, config.Discogs.UserAgent, config.Discogs.RateLimit)
		if err != nil {
			return fmt.Errorf("failed to configure discogs: %w", err)
		}
		opts.Lookup = discogs
	} else {
		r.logger.Warn("discogs token not configured, lookups disabled")
	}

	if config.Spotify.ClientID != "" && config.Spotify.ClientSecret != "" {
		spotify, err := services.NewSpotifyService(ctx, config.Spotify.ClientID, config.Spotify.ClientSecret)
		if err != nil {
			return fmt.Errorf("failed to configure spotify: %w", err)
		}
		opts.Spotify = spotify
	}

	return server.New(opts).Listen(ctx, addr)
}

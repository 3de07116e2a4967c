package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"crate/internal/formatter"
	"crate/internal/models"
	"crate/internal/shared"
)

// LookupBarcode looks up a release by barcode without adding it.
func (r *Runner) LookupBarcode(ctx context.Context, cmd *cli.Command) error {
	barcode := cmd.StringArg("barcode")
	if barcode == "" {
		return fmt.Errorf("%w: barcode", shared.ErrMissingArgument)
	}

	release, err := r.client.LookupBarcode(ctx, barcode)
	if err != nil {
		return fmt.Errorf("failed to look up barcode: %w", err)
	}

	return r.writeRelease(release, cmd)
}

// LookupDiscogs looks up a release by Discogs URL or numeric ID.
func (r *Runner) LookupDiscogs(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: discogs url or release id", shared.ErrMissingArgument)
	}

	release, err := r.client.LookupDiscogs(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to look up release: %w", err)
	}

	return r.writeRelease(release, cmd)
}

// LookupSpotify finds a matching Spotify album via client credentials.
func (r *Runner) LookupSpotify(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: spotify credentials not configured", shared.ErrServiceUnavailable)
	}

	match, err := r.spotify.SearchAlbum(ctx, cmd.String("artist"), cmd.String("album"))
	if err != nil {
		return fmt.Errorf("failed to search spotify: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(match, true)
	}

	r.writePlain("Album:  %s\n", match.Name)
	r.writePlain("Artist: %s\n", match.Artist)
	if match.ReleaseDate != "" {
		r.writePlain("Released: %s\n", match.ReleaseDate)
	}
	r.writePlain("Tracks: %d\n", match.TotalTracks)
	r.writePlain("URL:    %s\n", match.URL)
	if match.CoverURL != "" {
		r.writePlain("Cover:  %s\n", match.CoverURL)
	}
	return nil
}

func (r *Runner) writeRelease(release *models.Release, cmd *cli.Command) error {
	if cmd.Bool("open") && release.ReleaseURL != "" {
		if err := shared.OpenBrowser(release.ReleaseURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(release, true)
	}

	if _, err := r.output.Write(formatter.ReleaseToText(release)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

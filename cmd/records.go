package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"crate/internal/formatter"
	"crate/internal/models"
	"crate/internal/shared"
)

// RecordsList prints the collection in the requested format.
func (r *Runner) RecordsList(ctx context.Context, cmd *cli.Command) error {
	records, err := r.client.Records(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	switch format := cmd.String("format"); format {
	case "table":
		_, err = r.output.Write(formatter.RecordsToText(records))
	case "markdown", "md":
		_, err = r.output.Write(formatter.RecordsToMarkdown(records))
	case "json":
		var data []byte
		if data, err = formatter.RecordsToJSON(records); err == nil {
			_, err = r.output.Write(append(data, '\n'))
		}
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// RecordsAdd looks up a barcode or Discogs URL and adds the release.
func (r *Runner) RecordsAdd(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: barcode or discogs url", shared.ErrMissingArgument)
	}

	var release *models.Release
	var err error
	var source string

	if isBarcode(query) {
		release, err = r.client.LookupBarcode(ctx, query)
		source = "barcode"
	} else {
		release, err = r.client.LookupDiscogs(ctx, query)
		source = "discogs"
	}
	if err != nil {
		return fmt.Errorf("failed to look up release: %w", err)
	}

	record, err := r.client.AddRecord(ctx, models.RecordData{
		Artist:     release.Artist,
		Album:      release.Album,
		Year:       release.Year,
		Label:      release.Label,
		Genres:     release.Genres,
		Styles:     release.Styles,
		Musicians:  release.Musicians,
		MasterURL:  release.MasterURL,
		ReleaseURL: release.ReleaseURL,
		Barcode:    release.Barcode,
		Notes:      cmd.String("notes"),
		AddedFrom:  source,
	})
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}

	r.logger.Info("record added", "id", record.ID, "artist", record.Artist, "album", record.Album)
	return r.writePlain("✓ Added %s — %s (%s)\n", record.Artist, record.Album, record.ID)
}

// RecordsDelete deletes a record by ID.
func (r *Runner) RecordsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: record id", shared.ErrMissingArgument)
	}

	if err := r.client.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return r.writePlain("✓ Deleted %s\n", id)
}

// RecordsNotes replaces a record's notes.
func (r *Runner) RecordsNotes(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	text := cmd.StringArg("text")
	if id == "" {
		return fmt.Errorf("%w: record id", shared.ErrMissingArgument)
	}

	record, err := r.client.UpdateNotes(ctx, id, text)
	if err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}
	return r.writePlain("✓ Notes updated for %s — %s\n", record.Artist, record.Album)
}

// isBarcode reports whether the query looks like a UPC/EAN digit string.
func isBarcode(query string) bool {
	if len(query) < 8 || len(query) > 14 {
		return false
	}
	for _, c := range query {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

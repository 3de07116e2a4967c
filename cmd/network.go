package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"crate/internal/formatter"
	"crate/internal/models"
	"crate/internal/network"
	"crate/internal/shared"
)

// NetworkStats prints collection-wide network statistics.
func (r *Runner) NetworkStats(ctx context.Context, cmd *cli.Command) error {
	credits, err := r.fetchCredits(ctx)
	if err != nil {
		return err
	}

	if len(credits) == 0 {
		return r.writePlain("No musician credits in the collection yet\n")
	}

	stats := network.AnalyzeMusicians(credits)
	top := network.TopMusicians(stats, int(cmd.Int("top")))
	session := network.SessionMusicians(stats, 0, 0)

	output := formatter.StatsToText(network.Collaboration(credits), top, session)
	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// NetworkMusician prints one musician's albums and collaborators.
func (r *Runner) NetworkMusician(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: musician name", shared.ErrMissingArgument)
	}

	credits, err := r.fetchCredits(ctx)
	if err != nil {
		return err
	}

	stats := network.AnalyzeMusicians(credits)
	detail := network.Detail(name, credits, stats)
	if detail == nil {
		matches := network.SearchMusicians(stats, name, 5)
		if len(matches) == 0 {
			return fmt.Errorf("%w: no musician named %q", shared.ErrRecordNotFound, name)
		}
		r.writePlain("No exact match for %q, did you mean:\n", name)
		for _, match := range matches {
			r.writePlain("  - %s\n", match.Musician)
		}
		return nil
	}

	if _, err := r.output.Write(formatter.DetailToText(detail)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// NetworkGraph exports the collaboration graph, optionally filtered.
func (r *Runner) NetworkGraph(ctx context.Context, cmd *cli.Command) error {
	graph, err := r.client.MusicianNetwork(ctx)
	if err != nil {
		return fmt.Errorf("failed to build network: %w", err)
	}

	filters := network.Filters{}
	if role := cmd.String("role"); role != "" {
		filters.Roles = []string{role}
	}
	if genre := cmd.String("genre"); genre != "" {
		filters.Genres = []string{genre}
	}
	if style := cmd.String("style"); style != "" {
		filters.Styles = []string{style}
	}
	graph = network.Apply(graph, filters)

	data, err := formatter.GraphToJSON(graph)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		r.logger.Info("graph exported", "path", path, "nodes", len(graph.Nodes), "links", len(graph.Links))
		return r.writePlain("✓ Graph written to %s\n", path)
	}

	if _, err := r.output.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// fetchCredits loads the collection and parses its musician credits.
func (r *Runner) fetchCredits(ctx context.Context) ([]network.Credit, error) {
	records, err := r.client.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	var columns []models.ColumnData
	if columns, err = r.client.Columns(ctx); err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}

	return network.CreditsFromRecords(records, columns), nil
}

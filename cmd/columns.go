package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"crate/internal/models"
	"crate/internal/shared"
)

// ColumnsList prints the user's custom column definitions.
func (r *Runner) ColumnsList(ctx context.Context, cmd *cli.Command) error {
	columns, err := r.client.Columns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}

	if len(columns) == 0 {
		return r.writePlain("No custom columns defined\n")
	}

	for _, column := range columns {
		line := fmt.Sprintf("%s  %s (%s)", column.ID, column.Name, column.Type)
		if len(column.Options) > 0 {
			line = fmt.Sprintf("%s [%s]", line, strings.Join(column.Options, ", "))
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// ColumnsAdd defines a custom column.
func (r *Runner) ColumnsAdd(ctx context.Context, cmd *cli.Command) error {
	columnType, err := parseColumnType(cmd.String("type"))
	if err != nil {
		return err
	}

	column, err := r.client.AddColumn(ctx, models.ColumnData{
		Name:    cmd.String("name"),
		Type:    columnType,
		Options: cmd.StringSlice("option"),
	})
	if err != nil {
		return fmt.Errorf("failed to add column: %w", err)
	}

	return r.writePlain("✓ Added column %s (%s)\n", column.Name, column.ID)
}

// ColumnsDelete deletes a custom column by ID.
func (r *Runner) ColumnsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: column id", shared.ErrMissingArgument)
	}

	if err := r.client.DeleteColumn(ctx, id); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	return r.writePlain("✓ Deleted %s\n", id)
}

// ColumnsSet sets a record's value for a custom column.
func (r *Runner) ColumnsSet(ctx context.Context, cmd *cli.Command) error {
	recordID := cmd.StringArg("record")
	columnID := cmd.StringArg("column")
	value := cmd.StringArg("value")
	if recordID == "" || columnID == "" {
		return fmt.Errorf("%w: record and column ids", shared.ErrMissingArgument)
	}

	if err := r.client.SetCustomValue(ctx, recordID, columnID, value); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return r.writePlain("✓ Set %s = %q on %s\n", columnID, value, recordID)
}

func parseColumnType(name string) (models.ColumnType, error) {
	switch name {
	case "text":
		return models.ColumnText, nil
	case "number":
		return models.ColumnNumber, nil
	case "select":
		return models.ColumnSelect, nil
	case "boolean", "bool":
		return models.ColumnBoolean, nil
	default:
		return "", fmt.Errorf("%w: unknown column type %q", shared.ErrInvalidArgument, name)
	}
}

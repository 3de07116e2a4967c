package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"crate/internal/models"
	"crate/internal/shared"
)

// CustomColumnRepository implements models.Repository[*models.CustomColumn]
// and manages the per-record values stored against each column.
type CustomColumnRepository struct {
	db *sql.DB
}

// NewCustomColumnRepository creates a new CustomColumnRepository with the given database connection
func NewCustomColumnRepository(db *sql.DB) *CustomColumnRepository {
	return &CustomColumnRepository{db: db}
}

// Create inserts a new custom column with generated ID and sequence
func (r *CustomColumnRepository) Create(column *models.CustomColumn) error {
	sequence, err := NextSequence(r.db, "custom_columns")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	column.SetID(id)

	if err := column.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	options, err := marshalStrings(column.Options())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO custom_columns (id, sequence, user_id, name, type, options, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, column.UserID(), column.Name(), string(column.Type()), options, column.CreatedAt(), column.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert custom column: %w", err)
	}

	return nil
}

// Get retrieves a custom column by ID, excluding soft-deleted columns
func (r *CustomColumnRepository) Get(id string) (*models.CustomColumn, error) {
	query := `
		SELECT id, sequence, user_id, name, type, options, created_at, updated_at, deleted_at
		FROM custom_columns
		WHERE id = ? AND deleted_at IS NULL
	`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom column: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query custom column: %w", err)
		}
		return nil, shared.ErrColumnNotFound
	}

	return r.scanRow(rows)
}

// Update modifies an existing custom column in the database
func (r *CustomColumnRepository) Update(column *models.CustomColumn) error {
	if err := column.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	column.SetUpdatedAt(now)

	options, err := marshalStrings(column.Options())
	if err != nil {
		return err
	}

	query := `
		UPDATE custom_columns
		SET name = ?, type = ?, options = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, column.Name(), string(column.Type()), options, now, column.ID())
	if err != nil {
		return fmt.Errorf("failed to update custom column: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("custom column not found or already deleted: %s", column.ID())
	}

	return nil
}

// Delete soft-deletes a custom column by ID
func (r *CustomColumnRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE custom_columns
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete custom column: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("custom column not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all custom columns matching the given criteria, excluding soft-deleted columns
func (r *CustomColumnRepository) List(criteria map[string]any) ([]*models.CustomColumn, error) {
	query := `
		SELECT id, sequence, user_id, name, type, options, created_at, updated_at, deleted_at
		FROM custom_columns
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom columns: %w", err)
	}
	defer rows.Close()

	var columns []*models.CustomColumn
	for rows.Next() {
		column, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return columns, nil
}

// SetValue upserts the value a record holds for a custom column
func (r *CustomColumnRepository) SetValue(recordID, columnID, value string) error {
	query := `
		INSERT INTO custom_values (record_id, column_id, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (record_id, column_id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, recordID, columnID, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set custom value: %w", err)
	}

	return nil
}

// ValuesForRecord returns the columnID -> value map for a single record
func (r *CustomColumnRepository) ValuesForRecord(recordID string) (map[string]string, error) {
	rows, err := r.db.Query("SELECT column_id, value FROM custom_values WHERE record_id = ?", recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom values: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var columnID, value string
		if err := rows.Scan(&columnID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan custom value: %w", err)
		}
		values[columnID] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return values, nil
}

// ValuesForUser returns recordID -> (columnID -> value) for every record owned by a user
func (r *CustomColumnRepository) ValuesForUser(userID string) (map[string]map[string]string, error) {
	query := `
		SELECT cv.record_id, cv.column_id, cv.value
		FROM custom_values cv
		JOIN records rec ON rec.id = cv.record_id
		WHERE rec.user_id = ? AND rec.deleted_at IS NULL
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom values: %w", err)
	}
	defer rows.Close()

	values := map[string]map[string]string{}
	for rows.Next() {
		var recordID, columnID, value string
		if err := rows.Scan(&recordID, &columnID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan custom value: %w", err)
		}
		if values[recordID] == nil {
			values[recordID] = map[string]string{}
		}
		values[recordID][columnID] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return values, nil
}

// scanRow scans a row from [sql.Rows] into a [models.CustomColumn]
func (r *CustomColumnRepository) scanRow(rows *sql.Rows) (*models.CustomColumn, error) {
	var (
		id        string
		sequence  int
		userID    string
		name      string
		colType   string
		options   string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &userID, &name, &colType, &options, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan custom column: %w", err)
	}

	optionList, err := unmarshalStrings(options)
	if err != nil {
		return nil, err
	}

	dto := models.ColumnData{Name: name, Type: models.ColumnType(colType), Options: optionList}

	column := models.NewCustomColumn(sequence, userID, dto)
	column.SetID(id)
	column.SetCreatedAt(createdAt)
	column.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		column.SetDeletedAt(&deletedAt.Time)
	}

	return column, nil
}

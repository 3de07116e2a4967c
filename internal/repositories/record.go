package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"crate/internal/models"
	"crate/internal/shared"
)

// RecordRepository implements models.Repository[*models.Record] for vinyl collections.
//
// Genres, styles and musician credits are stored as JSON-encoded TEXT columns.
// All reads exclude soft-deleted records.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository with the given database connection
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `id, sequence, user_id, artist, album, year, label, genres, styles, musicians,
		master_url, release_url, release_year, barcode, notes, added_from, created_at, updated_at, deleted_at`

// Create inserts a new record into the database with generated ID and sequence
func (r *RecordRepository) Create(record *models.Record) error {
	sequence, err := NextSequence(r.db, "records")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	genres, err := marshalStrings(record.Genres())
	if err != nil {
		return err
	}
	styles, err := marshalStrings(record.Styles())
	if err != nil {
		return err
	}
	musicians, err := marshalStrings(record.Musicians())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO records (id, sequence, user_id, artist, album, year, label, genres, styles, musicians,
			master_url, release_url, release_year, barcode, notes, added_from, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		record.UserID(),
		record.Artist(),
		record.Album(),
		record.Year(),
		record.Label(),
		genres,
		styles,
		musicians,
		record.MasterURL(),
		record.ReleaseURL(),
		record.ReleaseYear(),
		record.Barcode(),
		record.Notes(),
		record.AddedFrom(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// Get retrieves a record by ID, excluding soft-deleted records
func (r *RecordRepository) Get(id string) (*models.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM records
		WHERE id = ? AND deleted_at IS NULL
	`, recordColumns)

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query record: %w", err)
		}
		return nil, shared.ErrRecordNotFound
	}

	return r.scanRow(rows)
}

// GetForUser retrieves a record by ID scoped to its owner
func (r *RecordRepository) GetForUser(userID, id string) (*models.Record, error) {
	record, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if record.UserID() != userID {
		return nil, shared.ErrRecordNotFound
	}
	return record, nil
}

// Update modifies an existing record in the database
func (r *RecordRepository) Update(record *models.Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	genres, err := marshalStrings(record.Genres())
	if err != nil {
		return err
	}
	styles, err := marshalStrings(record.Styles())
	if err != nil {
		return err
	}
	musicians, err := marshalStrings(record.Musicians())
	if err != nil {
		return err
	}

	query := `
		UPDATE records
		SET artist = ?, album = ?, year = ?, label = ?, genres = ?, styles = ?, musicians = ?,
			master_url = ?, release_url = ?, release_year = ?, barcode = ?, notes = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		record.Artist(),
		record.Album(),
		record.Year(),
		record.Label(),
		genres,
		styles,
		musicians,
		record.MasterURL(),
		record.ReleaseURL(),
		record.ReleaseYear(),
		record.Barcode(),
		record.Notes(),
		now,
		record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("record not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes a record by ID
func (r *RecordRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE records
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all records matching the given criteria, excluding soft-deleted records
func (r *RecordRepository) List(criteria map[string]any) ([]*models.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM records
		WHERE deleted_at IS NULL
	`, recordColumns)

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if barcode, ok := criteria["barcode"].(string); ok && barcode != "" {
		query += " AND barcode = ?"
		args = append(args, barcode)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Record]
func (r *RecordRepository) scanRow(rows *sql.Rows) (*models.Record, error) {
	var (
		id          string
		sequence    int
		userID      string
		artist      string
		album       string
		year        sql.NullInt64
		label       sql.NullString
		genres      string
		styles      string
		musicians   string
		masterURL   sql.NullString
		releaseURL  sql.NullString
		releaseYear sql.NullInt64
		barcode     sql.NullString
		notes       string
		addedFrom   string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &userID, &artist, &album, &year, &label, &genres, &styles, &musicians,
		&masterURL, &releaseURL, &releaseYear, &barcode, &notes, &addedFrom, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	genreList, err := unmarshalStrings(genres)
	if err != nil {
		return nil, err
	}
	styleList, err := unmarshalStrings(styles)
	if err != nil {
		return nil, err
	}
	musicianList, err := unmarshalStrings(musicians)
	if err != nil {
		return nil, err
	}

	dto := models.RecordData{
		Artist:      artist,
		Album:       album,
		Year:        int(year.Int64),
		Label:       label.String,
		Genres:      genreList,
		Styles:      styleList,
		Musicians:   musicianList,
		MasterURL:   masterURL.String,
		ReleaseURL:  releaseURL.String,
		ReleaseYear: int(releaseYear.Int64),
		Barcode:     barcode.String,
		Notes:       notes,
		AddedFrom:   addedFrom,
	}

	record := models.NewRecord(sequence, userID, dto)
	record.SetID(id)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}

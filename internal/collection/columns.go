package collection

import (
	"strconv"
	"strings"

	"crate/internal/models"
)

// Column describes one table column: either a built-in record field or a
// user-defined custom column.
//
// Key addresses the cell value; for custom columns it is the column ID.
type Column struct {
	Key      string            `json:"key"`
	Title    string            `json:"title"`
	Type     models.ColumnType `json:"type"`
	Custom   bool              `json:"custom,omitempty"`
	Options  []string          `json:"options,omitempty"`
	Editable bool              `json:"editable,omitempty"`
}

// Built-in column keys.
const (
	ColumnArtist  = "artist"
	ColumnAlbum   = "album"
	ColumnYear    = "year"
	ColumnLabel   = "label"
	ColumnGenres  = "genres"
	ColumnStyles  = "styles"
	ColumnBarcode = "barcode"
	ColumnNotes   = "notes"
)

// BuiltinColumns returns the fixed columns every collection table shows.
// Only notes are editable inline; the rest come from the lookup.
func BuiltinColumns() []Column {
	return []Column{
		{Key: ColumnArtist, Title: "Artist", Type: models.ColumnText},
		{Key: ColumnAlbum, Title: "Album", Type: models.ColumnText},
		{Key: ColumnYear, Title: "Year", Type: models.ColumnNumber},
		{Key: ColumnLabel, Title: "Label", Type: models.ColumnText},
		{Key: ColumnGenres, Title: "Genres", Type: models.ColumnText},
		{Key: ColumnStyles, Title: "Styles", Type: models.ColumnText},
		{Key: ColumnBarcode, Title: "Barcode", Type: models.ColumnText},
		{Key: ColumnNotes, Title: "Notes", Type: models.ColumnText, Editable: true},
	}
}

// Columns merges the built-in columns with the user's custom definitions,
// custom columns appended in definition order.
func Columns(custom []models.ColumnData) []Column {
	columns := BuiltinColumns()
	for _, definition := range custom {
		columns = append(columns, Column{
			Key:      definition.ID,
			Title:    definition.Name,
			Type:     definition.Type,
			Custom:   true,
			Options:  definition.Options,
			Editable: true,
		})
	}
	return columns
}

// CellValue extracts a record's display value for a column. List fields are
// joined with commas; missing custom values are empty.
func CellValue(record models.RecordData, column Column) string {
	if column.Custom {
		return record.CustomValues[column.Key]
	}

	switch column.Key {
	case ColumnArtist:
		return record.Artist
	case ColumnAlbum:
		return record.Album
	case ColumnYear:
		if record.Year == 0 {
			return ""
		}
		return strconv.Itoa(record.Year)
	case ColumnLabel:
		return record.Label
	case ColumnGenres:
		return strings.Join(record.Genres, ", ")
	case ColumnStyles:
		return strings.Join(record.Styles, ", ")
	case ColumnBarcode:
		return record.Barcode
	case ColumnNotes:
		return record.Notes
	default:
		return ""
	}
}

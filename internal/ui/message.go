package ui

import (
	"crate/internal/models"
)

// collectionFetchedMsg carries the user's records and column definitions.
type collectionFetchedMsg struct {
	records []models.RecordData
	columns []models.ColumnData
	err     error
}

// lookupDoneMsg carries the result of a barcode or Discogs URL lookup.
type lookupDoneMsg struct {
	release *models.Release
	err     error
}

// recordAddedMsg carries the record created from a confirmed lookup.
type recordAddedMsg struct {
	record *models.RecordData
	err    error
}

// recordDeletedMsg reports a completed delete.
type recordDeletedMsg struct {
	recordID string
	err      error
}

// notesSavedMsg reports a flushed notes edit.
type notesSavedMsg struct {
	err error
}

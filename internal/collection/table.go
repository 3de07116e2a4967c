package collection

import (
	"sort"
	"strconv"
	"strings"

	"crate/internal/models"
)

// DefaultPageSize matches the page length the table view renders.
const DefaultPageSize = 25

// Table holds the view state over a set of records: active sort, per-column
// filters, a global search term, and the current page.
type Table struct {
	records  []models.RecordData
	columns  []Column
	sortKey  string
	sortDesc bool
	filters  map[string]string
	search   string
	page     int
	pageSize int
}

// NewTable creates a table over the given records and column set, sorted by
// artist ascending.
func NewTable(records []models.RecordData, columns []Column) *Table {
	return &Table{
		records:  records,
		columns:  columns,
		sortKey:  ColumnArtist,
		filters:  map[string]string{},
		pageSize: DefaultPageSize,
	}
}

// SetRecords replaces the backing records, keeping sort and filters and
// clamping the page into range.
func (t *Table) SetRecords(records []models.RecordData) {
	t.records = records
	t.clampPage()
}

// Columns returns the table's column set.
func (t *Table) Columns() []Column { return t.columns }

// SortKey returns the active sort column key and direction.
func (t *Table) SortKey() (string, bool) { return t.sortKey, t.sortDesc }

// SortBy sorts by the given column. Sorting an already-sorted column flips
// the direction; a new column starts ascending.
func (t *Table) SortBy(key string) {
	if t.sortKey == key {
		t.sortDesc = !t.sortDesc
		return
	}
	t.sortKey = key
	t.sortDesc = false
}

// SetFilter sets a per-column filter term; an empty term clears the filter.
// Changing filters resets to the first page.
func (t *Table) SetFilter(key, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		delete(t.filters, key)
	} else {
		t.filters[key] = term
	}
	t.page = 0
}

// SetSearch sets the global search term matched against every column.
func (t *Table) SetSearch(term string) {
	t.search = strings.TrimSpace(term)
	t.page = 0
}

// SetPageSize changes the page length, resetting to the first page.
func (t *Table) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	t.pageSize = size
	t.page = 0
}

// Rows returns all records matching the filters, in sort order.
func (t *Table) Rows() []models.RecordData {
	rows := make([]models.RecordData, 0, len(t.records))
	for _, record := range t.records {
		if t.matches(record) {
			rows = append(rows, record)
		}
	}

	column, ok := t.column(t.sortKey)
	if !ok {
		return rows
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a := CellValue(rows[i], column)
		b := CellValue(rows[j], column)
		// Blank cells stay at the bottom regardless of direction, so the
		// empty-cell rule is applied before the comparison is reversed.
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		if t.sortDesc {
			return compareCells(b, a, column.Type)
		}
		return compareCells(a, b, column.Type)
	})

	return rows
}

// Page returns the rows on the current page.
func (t *Table) Page() []models.RecordData {
	rows := t.Rows()

	start := t.page * t.pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + t.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// PageIndex returns the zero-based current page.
func (t *Table) PageIndex() int { return t.page }

// PageCount returns the number of pages the filtered rows span.
func (t *Table) PageCount() int {
	rows := len(t.Rows())
	if rows == 0 {
		return 1
	}
	return (rows + t.pageSize - 1) / t.pageSize
}

// NextPage advances one page, stopping at the last.
func (t *Table) NextPage() {
	if t.page < t.PageCount()-1 {
		t.page++
	}
}

// PrevPage steps back one page, stopping at the first.
func (t *Table) PrevPage() {
	if t.page > 0 {
		t.page--
	}
}

func (t *Table) clampPage() {
	if last := t.PageCount() - 1; t.page > last {
		t.page = last
	}
}

func (t *Table) column(key string) (Column, bool) {
	for _, column := range t.columns {
		if column.Key == key {
			return column, true
		}
	}
	return Column{}, false
}

// matches applies the per-column filters and the global search term.
func (t *Table) matches(record models.RecordData) bool {
	for key, term := range t.filters {
		column, ok := t.column(key)
		if !ok {
			continue
		}
		if !matchCell(CellValue(record, column), term, column.Type) {
			return false
		}
	}

	if t.search == "" {
		return true
	}
	for _, column := range t.columns {
		if containsFold(CellValue(record, column), t.search) {
			return true
		}
	}
	return false
}

// matchCell matches a filter term against a cell. Select and boolean columns
// compare whole values; text and number columns match substrings.
func matchCell(value, term string, columnType models.ColumnType) bool {
	switch columnType {
	case models.ColumnSelect, models.ColumnBoolean:
		return strings.EqualFold(strings.TrimSpace(value), term)
	default:
		return containsFold(value, term)
	}
}

// compareCells orders two cell values by column type. Empty values sort last
// so blank cells don't crowd the top of the table.
func compareCells(a, b string, columnType models.ColumnType) bool {
	if a == "" || b == "" {
		return b == "" && a != ""
	}

	switch columnType {
	case models.ColumnNumber:
		na, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
		nb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if errA == nil && errB == nil {
			return na < nb
		}
	case models.ColumnBoolean:
		return parseBool(a) && !parseBool(b)
	}

	return strings.ToLower(a) < strings.ToLower(b)
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"crate/internal/collection"
	"crate/internal/formatter"
	"crate/internal/models"
	"crate/internal/network"
	"crate/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CollectionView ViewState = iota
	NotesView
	AddView
	PreviewView
	NetworkView
	MusicianView
)

// sortCycle is the order the sort key rotates through in the collection view.
var sortCycle = []string{
	collection.ColumnArtist,
	collection.ColumnAlbum,
	collection.ColumnYear,
	collection.ColumnLabel,
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	client *services.APIClient
	width  int
	height int

	table   *collection.Table
	editor  *collection.Editor
	records []models.RecordData
	columns []models.ColumnData
	sortIdx int

	recordList   list.Model
	listReady    bool
	musicianList list.Model

	credits []network.Credit
	stats   []network.MusicianStats
	detail  *network.MusicianDetail

	editing *models.RecordData
	input   textinput.Model
	preview *models.Release

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model backed by the provided API client.
func NewModel(ctx context.Context, client *services.APIClient) *Model {
	m := &Model{
		ctx:    ctx,
		view:   CollectionView,
		client: client,
		table:  collection.NewTable(nil, collection.BuiltinColumns()),
		input:  textinput.New(),
		help:   help.New(),
		keys:   newKeyMap(),
	}
	m.editor = collection.NewEditor(m.writeCell, 0)
	return m
}

// writeCell routes debounced cell edits to the API: notes go to the notes
// endpoint, custom columns to the custom-value endpoint.
func (m *Model) writeCell(ctx context.Context, recordID string, column collection.Column, value string) error {
	if column.Custom {
		return m.client.SetCustomValue(ctx, recordID, column.Key, value)
	}
	_, err := m.client.UpdateNotes(ctx, recordID, value)
	return err
}

// Init initializes the TUI by fetching the collection.
func (m *Model) Init() tea.Cmd {
	return m.fetchCollection()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.recordList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CollectionView:
			return m.handleCollectionKeys(msg)
		case NotesView:
			return m.handleNotesKeys(msg)
		case AddView:
			return m.handleAddKeys(msg)
		case PreviewView:
			return m.handlePreviewKeys(msg)
		case NetworkView:
			return m.handleNetworkKeys(msg)
		case MusicianView:
			return m.handleMusicianKeys(msg)
		}

	case collectionFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.records = msg.records
		m.columns = msg.columns
		m.table = collection.NewTable(msg.records, collection.Columns(msg.columns))
		m.rebuildRecordList()
		return m, nil

	case lookupDoneMsg:
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Lookup failed: %v", msg.err))
			m.view = AddView
			return m, nil
		}
		m.preview = msg.release
		m.view = PreviewView
		return m, nil

	case recordAddedMsg:
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Add failed: %v", msg.err))
		} else {
			m.status = styles.ok.Render(fmt.Sprintf("Added %s — %s", msg.record.Artist, msg.record.Album))
		}
		m.preview = nil
		m.view = CollectionView
		return m, m.fetchCollection()

	case recordDeletedMsg:
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Delete failed: %v", msg.err))
			return m, nil
		}
		m.status = styles.warn.Render("Record deleted")
		return m, m.fetchCollection()

	case notesSavedMsg:
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Save failed: %v", msg.err))
		} else {
			m.status = styles.ok.Render("Notes saved")
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CollectionView:
		return m.renderCollection()
	case NotesView:
		return m.renderNotes()
	case AddView:
		return m.renderAdd()
	case PreviewView:
		return m.renderPreview()
	case NetworkView:
		return m.renderNetwork()
	case MusicianView:
		return m.renderMusician()
	default:
		return ""
	}
}

func (m *Model) handleCollectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.listReady && m.recordList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.recordList, cmd = m.recordList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.editor.Close()
		return m, tea.Quit
	case "a":
		m.input = textinput.New()
		m.input.Placeholder = "barcode or Discogs URL"
		m.input.Focus()
		m.status = ""
		m.view = AddView
		return m, textinput.Blink
	case "e", "enter":
		if record, ok := m.selectedRecord(); ok {
			m.editing = &record
			m.input = textinput.New()
			m.input.SetValue(record.Notes)
			m.input.Focus()
			m.view = NotesView
			return m, textinput.Blink
		}
	case "x":
		if record, ok := m.selectedRecord(); ok {
			return m, m.deleteRecord(record.ID)
		}
	case "o":
		m.sortIdx = (m.sortIdx + 1) % len(sortCycle)
		m.table.SortBy(sortCycle[m.sortIdx])
		m.rebuildRecordList()
		return m, nil
	case "m":
		m.enterNetworkView()
		return m, nil
	case "r":
		return m, m.fetchCollection()
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

func (m *Model) handleNotesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = nil
		m.view = CollectionView
		return m, nil
	case "enter":
		return m, m.saveNotes()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = CollectionView
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		return m, m.lookup(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.editor.Close()
		return m, tea.Quit
	case "n", "esc":
		m.preview = nil
		m.view = AddView
		return m, nil
	case "y":
		return m, m.addRecord()
	}
	return m, nil
}

func (m *Model) handleNetworkKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.musicianList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.musicianList, cmd = m.musicianList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.editor.Close()
		return m, tea.Quit
	case "esc":
		m.view = CollectionView
		return m, nil
	case "enter":
		if selected, ok := m.musicianList.SelectedItem().(musicianItem); ok {
			m.detail = network.Detail(selected.stats.Musician, m.credits, m.stats)
			if m.detail != nil {
				m.view = MusicianView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.musicianList, cmd = m.musicianList.Update(msg)
	return m, cmd
}

func (m *Model) handleMusicianKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.editor.Close()
		return m, tea.Quit
	case "esc":
		m.detail = nil
		m.view = NetworkView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CollectionView:
		if m.listReady {
			m.recordList, cmd = m.recordList.Update(msg)
		}
	case NotesView, AddView:
		m.input, cmd = m.input.Update(msg)
	case NetworkView:
		m.musicianList, cmd = m.musicianList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedRecord() (models.RecordData, bool) {
	if !m.listReady {
		return models.RecordData{}, false
	}
	if item, ok := m.recordList.SelectedItem().(recordItem); ok {
		return item.record, true
	}
	return models.RecordData{}, false
}

// rebuildRecordList rebuilds the list items from the table's current sort
// order, preserving the cursor where possible.
func (m *Model) rebuildRecordList() {
	rows := m.table.Rows()
	items := make([]list.Item, len(rows))
	for i, record := range rows {
		items[i] = recordItem{record: record}
	}

	if !m.listReady {
		m.recordList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.recordList.SetSize(m.width-4, m.height-8)
		m.listReady = true
	} else {
		m.recordList.SetItems(items)
	}

	sortKey, descending := m.table.SortKey()
	direction := "↑"
	if descending {
		direction = "↓"
	}
	m.recordList.Title = fmt.Sprintf("Collection (%d) • sort: %s %s", len(rows), sortKey, direction)
}

func (m *Model) enterNetworkView() {
	m.credits = network.CreditsFromRecords(m.records, m.columns)
	m.stats = network.AnalyzeMusicians(m.credits)

	items := make([]list.Item, len(m.stats))
	for i, stat := range m.stats {
		items[i] = musicianItem{stats: stat}
	}
	m.musicianList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.musicianList.Title = fmt.Sprintf("Musicians (%d)", len(m.stats))
	m.musicianList.SetSize(m.width-4, m.height-8)
	m.view = NetworkView
}

func (m *Model) fetchCollection() tea.Cmd {
	return func() tea.Msg {
		records, err := m.client.Records(m.ctx)
		if err != nil {
			return collectionFetchedMsg{err: err}
		}
		columns, err := m.client.Columns(m.ctx)
		if err != nil {
			return collectionFetchedMsg{err: err}
		}
		return collectionFetchedMsg{records: records, columns: columns}
	}
}

func (m *Model) lookup(query string) tea.Cmd {
	return func() tea.Msg {
		var release *models.Release
		var err error
		if isBarcode(query) {
			release, err = m.client.LookupBarcode(m.ctx, query)
		} else {
			release, err = m.client.LookupDiscogs(m.ctx, query)
		}
		return lookupDoneMsg{release: release, err: err}
	}
}

func (m *Model) addRecord() tea.Cmd {
	release := m.preview
	return func() tea.Msg {
		record, err := m.client.AddRecord(m.ctx, models.RecordData{
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
			AddedFrom:  "lookup",
		})
		return recordAddedMsg{record: record, err: err}
	}
}

func (m *Model) deleteRecord(recordID string) tea.Cmd {
	return func() tea.Msg {
		err := m.client.DeleteRecord(m.ctx, recordID)
		return recordDeletedMsg{recordID: recordID, err: err}
	}
}

// saveNotes queues the edit on the debounced editor, then flushes so the
// save is visible before the view switches back.
func (m *Model) saveNotes() tea.Cmd {
	record := m.editing
	value := m.input.Value()

	notesColumn, ok := m.notesColumn()
	if !ok || record == nil {
		m.view = CollectionView
		return nil
	}

	record.Notes = value
	m.updateLocalRecord(*record)
	m.editing = nil
	m.view = CollectionView

	return func() tea.Msg {
		if err := m.editor.Set(record.ID, notesColumn, value); err != nil {
			return notesSavedMsg{err: err}
		}
		m.editor.Flush()
		for _, err := range m.editor.Errors() {
			return notesSavedMsg{err: err}
		}
		return notesSavedMsg{}
	}
}

func (m *Model) notesColumn() (collection.Column, bool) {
	for _, column := range m.table.Columns() {
		if column.Key == collection.ColumnNotes {
			return column, true
		}
	}
	return collection.Column{}, false
}

func (m *Model) updateLocalRecord(updated models.RecordData) {
	for i, record := range m.records {
		if record.ID == updated.ID {
			m.records[i] = updated
		}
	}
	m.table.SetRecords(m.records)
	m.rebuildRecordList()
}

func (m *Model) renderCollection() string {
	if !m.listReady {
		return "Loading collection..."
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.add, m.keys.notes, m.keys.sort, m.keys.network, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	body := m.recordList.View()
	if m.status != "" {
		body = fmt.Sprintf("%s\n%s", body, m.status)
	}
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderNotes() string {
	title := styles.title.Render(fmt.Sprintf("Notes for %s — %s", m.editing.Artist, m.editing.Album))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), helpView)
}

func (m *Model) renderAdd() string {
	title := styles.title.Render("Add a record")
	prompt := "Scan a barcode or paste a Discogs release URL:"
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})

	body := fmt.Sprintf("%s\n%s\n%s", title, prompt, m.input.View())
	if m.status != "" {
		body = fmt.Sprintf("%s\n\n%s", body, m.status)
	}
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderPreview() string {
	title := styles.title.Render("Add this record?")
	preview := string(formatter.ReleaseToText(m.preview))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, preview, helpView)
}

func (m *Model) renderNetwork() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.musicianList.View(), helpView)
}

func (m *Model) renderMusician() string {
	detail := string(formatter.DetailToText(m.detail))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s", detail, helpView)
}

// isBarcode reports whether the query looks like a UPC/EAN digit string.
func isBarcode(query string) bool {
	if len(query) < 8 || len(query) > 14 {
		return false
	}
	for _, r := range query {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

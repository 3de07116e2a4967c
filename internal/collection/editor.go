package collection

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultDebounce is how long the editor waits after the last keystroke
// before writing a cell back.
const DefaultDebounce = 600 * time.Millisecond

// CellWriter persists one cell edit. Implementations route notes to the
// notes endpoint and custom columns to the custom value endpoint.
type CellWriter func(ctx context.Context, recordID string, column Column, value string) error

// Editor debounces inline cell edits so rapid keystrokes produce a single
// write per cell, last write wins.
//
// Close flushes everything still pending.
type Editor struct {
	writer   CellWriter
	debounce time.Duration

	mu      sync.Mutex
	pending map[cellKey]pendingEdit
	timers  map[cellKey]*time.Timer
	errs    []error
	closed  bool
}

type cellKey struct {
	recordID  string
	columnKey string
}

type pendingEdit struct {
	column Column
	value  string
}

// NewEditor creates an editor writing through the given writer. A zero
// debounce falls back to [DefaultDebounce].
func NewEditor(writer CellWriter, debounce time.Duration) *Editor {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Editor{
		writer:   writer,
		debounce: debounce,
		pending:  map[cellKey]pendingEdit{},
		timers:   map[cellKey]*time.Timer{},
	}
}

// Set records a cell edit and (re)starts the cell's debounce timer. Edits
// after Close are rejected.
func (e *Editor) Set(recordID string, column Column, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("editor is closed")
	}

	key := cellKey{recordID: recordID, columnKey: column.Key}
	e.pending[key] = pendingEdit{column: column, value: value}

	if timer, ok := e.timers[key]; ok {
		timer.Stop()
	}
	e.timers[key] = time.AfterFunc(e.debounce, func() {
		e.flushCell(key)
	})

	return nil
}

// flushCell writes one pending cell if it is still pending.
func (e *Editor) flushCell(key cellKey) {
	e.mu.Lock()
	edit, ok := e.pending[key]
	if ok {
		delete(e.pending, key)
		delete(e.timers, key)
	}
	e.mu.Unlock()

	if !ok {
		return
	}

	if err := e.writer(context.Background(), key.recordID, edit.column, edit.value); err != nil {
		e.mu.Lock()
		e.errs = append(e.errs, fmt.Errorf("failed to save %s for record %s: %w", edit.column.Key, key.recordID, err))
		e.mu.Unlock()
	}
}

// Flush writes every pending edit immediately, cancelling their timers.
func (e *Editor) Flush() {
	e.mu.Lock()
	keys := make([]cellKey, 0, len(e.pending))
	for key := range e.pending {
		keys = append(keys, key)
	}
	for key, timer := range e.timers {
		timer.Stop()
		delete(e.timers, key)
	}
	e.mu.Unlock()

	for _, key := range keys {
		e.flushCell(key)
	}
}

// Pending reports how many cell edits are waiting to be written.
func (e *Editor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Errors drains and returns write errors collected since the last call.
func (e *Editor) Errors() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs := e.errs
	e.errs = nil
	return errs
}

// Close flushes pending edits and rejects further ones.
func (e *Editor) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.Flush()

	if errs := e.Errors(); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

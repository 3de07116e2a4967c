// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over a crate server:
//  1. [CollectionView] : Browse, filter, and sort the record collection
//  2. [NotesView] : Edit a record's notes inline with debounced write-back
//  3. [AddView] : Enter a barcode or Discogs URL to look up a release
//  4. [PreviewView] : Confirm a looked-up release before adding it
//  5. [NetworkView] : Browse musicians ranked by appearances
//  6. [MusicianView] : Drill into one musician's albums and collaborators
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// All server traffic goes through [services.APIClient]; notes and custom cell
// edits are coalesced by a [collection.Editor] before they reach the wire.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

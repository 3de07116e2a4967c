package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	add     key.Binding
	notes   key.Binding
	remove  key.Binding
	sort    key.Binding
	network key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add record")),
		notes:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit notes")),
		remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		sort:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		network: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "musicians")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.add, k.notes, k.remove, k.sort},
		{k.network, k.refresh, k.quit},
	}
}

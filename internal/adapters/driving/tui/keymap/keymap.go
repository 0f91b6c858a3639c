// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the full key list.
	Help key.Binding

	// Up navigates up in the offer table.
	Up key.Binding

	// Down navigates down in the offer table.
	Down key.Binding

	// Details toggles the detail pane of the selected offer.
	Details key.Binding

	// Filter focuses the filter input.
	Filter key.Binding

	// Apply applies the filter input.
	Apply key.Binding

	// Cancel leaves the filter input unchanged.
	Cancel key.Binding

	// Sync runs a throttled sync.
	Sync key.Binding

	// ForceSync runs a sync ignoring the update gap.
	ForceSync key.Binding

	// Refresh reloads offers and status from the store.
	Refresh key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync"),
		),
		ForceSync: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "force sync"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Sync, k.Details, k.Help, k.Quit}
}

// FilterHelp returns the bindings active while editing the filter.
func (k *KeyMap) FilterHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Cancel}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Details},
		{k.Filter, k.Apply, k.Cancel},
		{k.Sync, k.ForceSync, k.Refresh},
		{k.Help, k.Quit},
	}
}

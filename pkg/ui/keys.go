// Package ui provides the Bubble Tea TUI for the escrow desk.
package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Sign    key.Binding
	Deposit key.Binding
	Settle  key.Binding
	New     key.Binding
	Clear   key.Binding
	Help    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Sign: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sign"),
		),
		Deposit: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deposit"),
		),
		Settle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "settle"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new escrow"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear errors"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.New, k.Help}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Refresh, k.Up, k.Down},
		{k.Sign, k.Deposit, k.Settle, k.New, k.Clear},
	}
}

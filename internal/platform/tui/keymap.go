package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// PlayKeyMap defines the key bindings for the play overlay.
// Bindings are phase-sensitive; the model enables and disables them
// before rendering help so only valid actions are shown.
type PlayKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Lose    key.Binding
	Seek    key.Binding
	Reroll  key.Binding
	Leave   key.Binding
	Raise   key.Binding
	Lower   key.Binding
	Accept  key.Binding
	Decline key.Binding
	Provoke key.Binding
	Save    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Lose, k.Seek, k.Reroll, k.Leave,
		k.Raise, k.Accept, k.Decline, k.Provoke, k.Save, k.Quit,
	}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Lose, k.Seek},
		{k.Reroll, k.Leave, k.Raise, k.Lower},
		{k.Accept, k.Decline, k.Provoke, k.Save, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Lose: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "lose room"),
		),
		Seek: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "seek wanderer"),
		),
		Reroll: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reroll"),
		),
		Leave: key.NewBinding(
			key.WithKeys("tab", "c"),
			key.WithHelp("tab/c", "leave shop"),
		),
		Raise: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "raise score"),
		),
		Lower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "lower score"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept"),
		),
		Decline: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "decline"),
		),
		Provoke: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "provoke"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save run"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/tilequest/engine/input"
)

// KeyMap binds terminal keys to gamepad buttons.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	A      key.Binding
	B      key.Binding
	Start  key.Binding
	Select key.Binding

	// Talk presses a direction and A together, for terminals that do not
	// deliver two keys at once.
	TalkUp    key.Binding
	TalkDown  key.Binding
	TalkLeft  key.Binding
	TalkRight key.Binding

	Restart key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d", "right")),
		A:      key.NewBinding(key.WithKeys("z", " "), key.WithHelp("z", "A")),
		B:      key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "B")),
		Start:  key.NewBinding(key.WithKeys("enter", "i"), key.WithHelp("enter", "inventory")),
		Select: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),

		TalkUp:    key.NewBinding(key.WithKeys("shift+up", "W"), key.WithHelp("shift+dir", "talk")),
		TalkDown:  key.NewBinding(key.WithKeys("shift+down", "S")),
		TalkLeft:  key.NewBinding(key.WithKeys("shift+left", "A")),
		TalkRight: key.NewBinding(key.WithKeys("shift+right", "D")),

		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type buttonBinding struct {
	binding *key.Binding
	buttons input.Button
}

func (km *KeyMap) buttonBindings() []buttonBinding {
	return []buttonBinding{
		{&km.Up, input.Up},
		{&km.Down, input.Down},
		{&km.Left, input.Left},
		{&km.Right, input.Right},
		{&km.A, input.A},
		{&km.B, input.B},
		{&km.Start, input.Start},
		{&km.Select, input.Select},
		{&km.TalkUp, input.Up | input.A},
		{&km.TalkDown, input.Down | input.A},
		{&km.TalkLeft, input.Left | input.A},
		{&km.TalkRight, input.Right | input.A},
		{&km.Restart, input.Reset},
	}
}

// Buttons returns the gamepad buttons msg stands for, or 0.
func (km KeyMap) Buttons(msg tea.KeyMsg) input.Button {
	var b input.Button
	for _, bb := range km.buttonBindings() {
		if key.Matches(msg, *bb.binding) {
			b |= bb.buttons
		}
	}
	return b
}

// ShortHelp implements help.KeyMap.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Left, km.Right, km.A, km.B, km.Start, km.TalkUp, km.Restart, km.Quit}
}

// FullHelp implements help.KeyMap.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Up, km.Down, km.Left, km.Right},
		{km.A, km.B, km.Start, km.Select},
		{km.TalkUp, km.Restart, km.Quit},
	}
}

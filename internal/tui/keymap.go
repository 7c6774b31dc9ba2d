package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the dashboard.
// It helps in managing and displaying help information.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Start        key.Binding
	Stop         key.Binding
	Restart      key.Binding
	StartFleet   key.Binding
	StopFleet    key.Binding
	CopyEndpoint key.Binding
	ToggleLog    key.Binding
	Refresh      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns a KeyMap with default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "previous bot"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next bot"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start bot"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop bot"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart bot"),
		),
		StartFleet: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "start fleet"),
		),
		StopFleet: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "stop fleet"),
		),
		CopyEndpoint: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy API endpoint"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "toggle log pane"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh now"),
		),
		Help: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
	}
}

// FullHelp returns bindings for the help overlay, one inner slice per
// column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},                                // Navigation column
		{k.Start, k.Stop, k.Restart},                  // Bot operations column
		{k.StartFleet, k.StopFleet, k.Refresh},        // Fleet operations column
		{k.CopyEndpoint, k.ToggleLog, k.Help, k.Quit}, // UI/General column
	}
}

// ShortHelp returns the minimal set of bindings shown below the table.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Restart, k.Help, k.Quit}
}

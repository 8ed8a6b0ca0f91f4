package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding of the demo. It doubles as the help.KeyMap
// for the footer help bar.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	DragUp     key.Binding
	DragDown   key.Binding
	Release    key.Binding
	Cancel     key.Binding
	Topology   key.Binding
	Debug      key.Binding
	Trace      key.Binding
	SaveTrace  key.Binding
	SaveConfig key.Binding
	Reset      key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		DragUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "drag finger up"),
		),
		DragDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "drag finger down"),
		),
		Release: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "release"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),
		Topology: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next topology"),
		),
		Debug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "debug overlay"),
		),
		Trace: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "event log"),
		),
		SaveTrace: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "write trace"),
		),
		SaveConfig: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save config"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.DragUp, k.DragDown, k.Release, k.Topology, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.DragUp, k.DragDown, k.Release, k.Cancel},
		{k.Topology, k.Debug, k.Trace, k.SaveTrace, k.SaveConfig, k.Reset},
		{k.Help, k.Quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Quit         key.Binding
	Help         key.Binding
	Back         key.Binding
	Refresh      key.Binding
	Enter        key.Binding
	Input        key.Binding
	Type         key.Binding
	High         key.Binding
	ClearFilters key.Binding
	Analyze      key.Binding
	Pause        key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.Enter, k.Input, k.Type, k.High}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Enter},
		{k.Input, k.Type, k.High, k.ClearFilters},
		{k.Refresh, k.Analyze, k.Pause, k.Back, k.Help, k.Quit},
	}
}

var defaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp(upArrow+"/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp(downArrow+"/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "view incident"),
	),
	Input: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Type: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle type filter"),
	),
	High: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "high severity only"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear filters"),
	),
	Analyze: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "analyze sample transcript"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause auto-refresh"),
	),
}

package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit     key.Binding
	Logout   key.Binding
	Help     key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Refresh  key.Binding
	Search   key.Binding
	Up       key.Binding
	Down     key.Binding
	NextRepo key.Binding
	PrevRepo key.Binding
}

var Keys = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	NextRepo: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next repo")),
	PrevRepo: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev repo")),
}

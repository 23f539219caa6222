package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Escape   key.Binding
	Quit     key.Binding
	Toggle   key.Binding
	Clear    key.Binding
	Poll     key.Binding
	Adapters key.Binding
	Ifaces   key.Binding
	Filter   key.Binding
	Reload   key.Binding
	Theme    key.Binding
	Help     key.Binding
}

// DefaultKeyMap provides the default set of key bindings.
var DefaultKeyMap = KeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
	Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	Poll:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "poll now")),
	Adapters: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "adapters")),
	Ifaces:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "interfaces")),
	Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
	Reload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "refresh adapters")),
	Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next theme")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

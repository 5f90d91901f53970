package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pan     key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Labels  key.Binding
	Star    key.Binding
	Find    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Pan: key.NewBinding(
			key.WithKeys("up", "down", "left", "right", "h", "j", "k", "l"),
			key.WithHelp("←↓↑→/hjkl", "pan"),
		),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		Labels:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "numbers")),
		Star:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star")),
		Find:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pan, k.ZoomIn, k.ZoomOut, k.Reset, k.Find, k.Labels, k.Star, k.Back, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pan, k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Find, k.Labels, k.Star, k.Back, k.Quit},
	}
}

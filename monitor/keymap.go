package monitor

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	quit, clear key.Binding
}

func newKeymap() keymap {
	return keymap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear events"),
		),
	}
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.clear, k.quit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

package tui

import (
	"outline-engine/internal/keys"

	"github.com/charmbracelet/bubbles/key"
)

// helpKeys adapts a binding list to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding {
	if len(h) > 4 {
		return h[:4]
	}
	return h
}

func (h helpKeys) FullHelp() [][]key.Binding {
	half := (len(h) + 1) / 2
	return [][]key.Binding{h[:half], h[half:]}
}

var (
	quitKey = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	helpKey = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys"))
)

func containerKeys() helpKeys {
	return append(helpKeys(keys.ContainerHelp()), helpKey, quitKey)
}

func editorKeys() helpKeys {
	return helpKeys(keys.EditorHelp())
}

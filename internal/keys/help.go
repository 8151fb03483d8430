package keys

import "github.com/charmbracelet/bubbles/key"

// ContainerHelp lists the container-scope chords as terminals send them.
func ContainerHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "navigate")),
		key.NewBinding(key.WithKeys("home", "end"), key.WithHelp("home/end", "first/last row")),
		key.NewBinding(key.WithKeys("right", "left"), key.WithHelp("→/←", "expand/collapse")),
		key.NewBinding(key.WithKeys("ctrl+shift+up", "ctrl+shift+down"), key.WithHelp("ctrl+shift+↑/↓", "reorder")),
		key.NewBinding(key.WithKeys("ctrl+shift+right", "ctrl+shift+left"), key.WithHelp("ctrl+shift+→/←", "indent/outdent")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit row")),
		key.NewBinding(key.WithKeys("ctrl+z", "ctrl+y"), key.WithHelp("ctrl+z/ctrl+y", "undo/redo")),
	}
}

// EditorHelp lists the editor-scope chords as terminals send them.
func EditorHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop editing")),
		key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab/shift+tab", "indent/outdent")),
		key.NewBinding(key.WithKeys("alt+up", "alt+down"), key.WithHelp("alt+↑/↓", "reorder")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new sibling")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "previous/next row")),
	}
}

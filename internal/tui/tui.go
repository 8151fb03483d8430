// Package tui is an interactive browser for one outline view. Key presses go through the
// keys tables and every structural change is planned by mutate, so the browser behaves
// like any other client of the engine.
package tui

import (
	"outline-engine/internal/snapshot"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the browser. save is called after every change; nil keeps changes in memory.
func Run(snap snapshot.Snapshot, save func(snapshot.Snapshot) error) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newBrowser(snap, save)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

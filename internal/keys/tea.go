package keys

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

var teaKeyNames = map[string]string{
	"up":        keyArrowUp,
	"down":      keyArrowDown,
	"left":      keyArrowLeft,
	"right":     keyArrowRight,
	"home":      keyHome,
	"end":       keyEnd,
	"enter":     keyEnter,
	"tab":       keyTab,
	"esc":       keyEscape,
	"backspace": keyBackspace,
	"delete":    keyDelete,
	" ":         " ",
	"space":     " ",
}

// FromKeyMsg converts a terminal key event into a Chord. Terminals cannot report Cmd, so
// alt stands in for Meta.
func FromKeyMsg(msg tea.KeyMsg) Chord {
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		s := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			s = " "
		}
		c := Chord{Key: s, Meta: msg.Alt}
		if r := []rune(s); len(r) == 1 && unicode.IsUpper(r[0]) {
			c.Shift = true
		}
		return c
	}

	// Named keys render as "ctrl+shift+up", "alt+enter", "shift+tab", "ctrl+z", ...
	parts := strings.Split(msg.String(), "+")
	name := parts[len(parts)-1]
	var c Chord
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl":
			c.Ctrl = true
		case "alt":
			c.Meta = true
		case "shift":
			c.Shift = true
		}
	}
	if k, ok := teaKeyNames[name]; ok {
		c.Key = k
	} else {
		c.Key = name
	}
	return c
}

package tui

import (
	"fmt"
	"strings"

	"outline-engine/internal/format"
	"outline-engine/internal/tree"

	xansi "github.com/charmbracelet/x/ansi"
)

// header, blank line, status, help
const chromeLines = 4

func (m browser) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	h := m.height - chromeLines
	if m.help.ShowAll {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m browser) View() string {
	var b strings.Builder

	view := m.snap.ViewID
	if view == "" {
		view = "-"
	}
	b.WriteString(styleHeader().Render(fmt.Sprintf("Outline  view=%s  rows=%d/%d", view, len(m.data.FlatRows), len(m.data.OrderedPlacementIDs))))
	b.WriteString("\n\n")

	rows := m.data.FlatRows
	if len(rows) == 0 {
		b.WriteString(styleMuted().Render("(empty view)"))
		b.WriteString("\n")
	}
	start, end := 0, len(rows)
	if body := m.bodyHeight(); body > 0 {
		start = m.offset
		if start > len(rows) {
			start = len(rows)
		}
		if start+body < end {
			end = start + body
		}
	}
	for _, row := range rows[start:end] {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}

	if m.status != "" {
		st := styleMuted()
		if m.statusErr {
			st = styleError()
		}
		b.WriteString(st.Render(m.status))
	}
	b.WriteString("\n")

	km := containerKeys()
	if m.editing {
		km = editorKeys()
	}
	b.WriteString(m.help.View(km))
	return b.String()
}

func (m browser) renderRow(row tree.Row) string {
	var line string
	if m.editing && row.PlacementID == m.selected {
		line = strings.Repeat("  ", row.Depth) + format.Glyph(row) + " " + m.input.View()
	} else {
		line = format.RowLine(row)
	}
	if label := format.OverlayLabel(row.Overlay); label != "" {
		line += " " + styleOverlay().Render("["+label+"]")
	}

	if row.PlacementID != m.selected || m.editing {
		return fit(line, m.width)
	}
	// Pad the selected row so the highlight spans the full width.
	line = fit(line, m.width)
	if pad := m.width - xansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return styleSelected().Render(line)
}

func fit(line string, width int) string {
	if width > 0 && xansi.StringWidth(line) > width {
		return xansi.Truncate(line, width, "…")
	}
	return line
}

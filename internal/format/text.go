package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"outline-engine/internal/model"
	"outline-engine/internal/tree"
)

// Texter is implemented by results that have a human-readable rendering.
type Texter interface {
	Text(r *lipgloss.Renderer) string
}

// NewRenderer returns a renderer bound to w. NO_COLOR forces plain output; otherwise the
// profile follows w (non-terminals get no escapes).
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

const (
	GlyphCollapsed = "▸"
	GlyphExpanded  = "▾"
	GlyphLeaf      = "•"
)

// Glyph is the twisty shown before a row's title.
func Glyph(row tree.Row) string {
	switch {
	case !row.HasChildren:
		return GlyphLeaf
	case row.Collapsed:
		return GlyphCollapsed
	default:
		return GlyphExpanded
	}
}

// Title is the atom's title, falling back to the block and then the placement id.
func Title(row tree.Row) string {
	if row.Atom != nil {
		if t := row.Atom.Title(); t != "" {
			return t
		}
	}
	if row.Block.ID != "" {
		return row.Block.ID
	}
	return row.PlacementID
}

// OverlayLabel describes a row's active blocking condition, or "" when there is none.
func OverlayLabel(c *model.Condition) string {
	if c == nil {
		return ""
	}
	p := c.Payload
	switch c.Mode {
	case model.ConditionPerson:
		if p.WaitingOnPerson != "" {
			return "waiting on " + p.WaitingOnPerson
		}
		return "waiting"
	case model.ConditionTask:
		if p.BlockerAtomID != "" {
			return "blocked by " + p.BlockerAtomID
		}
		return "blocked"
	case model.ConditionDate:
		if p.BlockedUntil != "" {
			return "until " + p.BlockedUntil
		}
		return "deferred"
	default:
		return string(c.Mode)
	}
}

// RowLine renders a row without styling: indent, glyph, title, and hidden count when
// collapsed.
func RowLine(row tree.Row) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Depth))
	b.WriteString(Glyph(row))
	b.WriteString(" ")
	b.WriteString(Title(row))
	if row.Collapsed && row.DescendantCount > 0 {
		fmt.Fprintf(&b, " (+%d)", row.DescendantCount)
	}
	return b.String()
}

// Outline renders visible rows, one per line. width <= 0 disables truncation.
func Outline(r *lipgloss.Renderer, rows []tree.Row, width int) string {
	if len(rows) == 0 {
		return r.NewStyle().Faint(true).Render("(empty)")
	}
	badge := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "166", Dark: "214"})
	pinned := r.NewStyle().Bold(true)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line := RowLine(row)
		if row.Placement.Pinned {
			line = pinned.Render(line)
		}
		if label := OverlayLabel(row.Overlay); label != "" {
			line += " " + badge.Render("["+label+"]")
		}
		if width > 0 && xansi.StringWidth(line) > width {
			line = xansi.Truncate(line, width, "…")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

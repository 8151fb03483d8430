package format

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided because it queries the terminal.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// MarkdownStyle picks the glamour style for r: ascii without colour, else dark or light.
func MarkdownStyle(r *lipgloss.Renderer) string {
	switch {
	case r == nil || r.ColorProfile() == termenv.Ascii:
		return styles.AsciiStyle
	case r.HasDarkBackground():
		return styles.DarkStyle
	default:
		return styles.LightStyle
	}
}

// Markdown renders md for the terminal behind r, wrapped at width. On renderer errors the
// source is returned unchanged.
func Markdown(r *lipgloss.Renderer, md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := MarkdownStyle(r)
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	tr := mdRenderers[key]
	if tr == nil {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = tr
	}
	mdRendererMu.Unlock()

	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

package publish

import (
	"bytes"
	"fmt"
	"strings"

	"outline-engine/internal/format"
	"outline-engine/internal/tree"
)

// RenderViewMarkdown renders every row of a view as a nested list linking to row pages.
// d should be built without collapse state so hidden rows are included.
func RenderViewMarkdown(viewID string, d tree.Data) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(viewID)
	if title == "" {
		title = "Outline"
	}
	writeLn("# " + title)
	writeLn("")

	if len(d.FlatRows) == 0 {
		writeLn("_No rows._")
		return buf.String()
	}
	for _, row := range d.FlatRows {
		renderIndexLine(&buf, row)
	}
	return buf.String()
}

func renderIndexLine(buf *bytes.Buffer, row tree.Row) {
	prefix := strings.Repeat("  ", row.Depth)
	suffix := ""
	if label := format.OverlayLabel(row.Overlay); label != "" {
		suffix = " (" + label + ")"
	}
	fmt.Fprintf(buf, "%s- [%s](rows/%s.md)%s\n", prefix, escape(format.Title(row)), row.PlacementID, suffix)
}

// RenderRowMarkdown renders one row: its identifiers, blocking overlay and children.
func RenderRowMarkdown(d tree.Data, placementID string) (string, error) {
	row, ok := d.RowByPlacementID[strings.TrimSpace(placementID)]
	if !ok {
		return "", fmt.Errorf("placement not found: %s", placementID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + format.Title(row))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- Placement: " + row.PlacementID)
	writeLn("- Block: " + row.Block.ID)
	if row.Block.AtomID != "" {
		writeLn("- Atom: " + row.Block.AtomID)
	}
	if parent := row.EffectiveParentPlacementID; parent != "" {
		if p, ok := d.RowByPlacementID[parent]; ok {
			writeLn(fmt.Sprintf("- Parent: [%s](%s.md)", escape(format.Title(p)), parent))
		} else {
			writeLn("- Parent: " + parent)
		}
	}
	if row.Placement.Pinned {
		writeLn("- Pinned: true")
	}
	if s := strings.TrimSpace(row.Block.TaskStatus); s != "" {
		writeLn("- Status: " + s)
	}
	if label := format.OverlayLabel(row.Overlay); label != "" {
		writeLn("- Blocked: " + label)
	}

	if kids := d.Children(row.PlacementID); len(kids) > 0 {
		writeLn("")
		writeLn("## Children")
		writeLn("")
		for _, id := range kids {
			title := id
			if k, ok := d.RowByPlacementID[id]; ok {
				title = format.Title(k)
			}
			writeLn(fmt.Sprintf("- [%s](%s.md)", escape(title), id))
		}
	}
	return buf.String(), nil
}

var linkText = strings.NewReplacer("[", `\[`, "]", `\]`)

func escape(s string) string { return linkText.Replace(s) }

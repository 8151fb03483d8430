package cli

import (
	"strings"

	"outline-engine/internal/format"
	"outline-engine/internal/tree"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type treeResult struct {
	ViewID string     `json:"viewId"`
	Rows   []tree.Row `json:"rows"`
	Data   *tree.Data `json:"tree,omitempty"`
	width  int
}

func (r treeResult) Text(re *lipgloss.Renderer) string {
	return format.Outline(re, r.Rows, r.width)
}

func newTreeCmd(app *App) *cobra.Command {
	var under string
	var full bool
	var width int
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the visible rows of a view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, d, err := loadTree(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := d.FlatRows
			if id := strings.TrimSpace(under); id != "" {
				var ok bool
				rows, ok = visibleSubtree(d, id)
				if !ok {
					return writeErr(cmd, errNotFound("placement", id))
				}
			}
			out := treeResult{ViewID: snap.ViewID, Rows: rows, width: width}
			if out.Rows == nil {
				out.Rows = []tree.Row{}
			}
			if full {
				out.Data = &d
			}
			app.log.Debug("tree built", "rows", len(d.FlatRows), "placements", len(d.OrderedPlacementIDs))
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().StringVar(&under, "under", "", "Only print rows below this placement")
	cmd.Flags().BoolVar(&full, "full", false, "Include the full tree data (parent map, children, canonical order)")
	cmd.Flags().IntVar(&width, "width", 0, "Truncate text rows to this many columns (0 = no limit)")
	return cmd
}

// visibleSubtree returns the visible rows nested under id.
func visibleSubtree(d tree.Data, id string) ([]tree.Row, bool) {
	if _, ok := d.PlacementByID[id]; !ok {
		return nil, false
	}
	below := map[string]bool{}
	for _, x := range d.Descendants(id) {
		below[x] = true
	}
	var rows []tree.Row
	for _, r := range d.FlatRows {
		if below[r.PlacementID] {
			rows = append(rows, r)
		}
	}
	return rows, true
}

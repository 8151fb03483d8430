package cli

import (
	"strings"

	"outline-engine/internal/publish"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type publishResult struct {
	publish.WriteResult
}

func (r publishResult) Text(*lipgloss.Renderer) string {
	return strings.Join(r.Written, "\n")
}

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write a view as Markdown pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteView(snap, to, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Debug("published view", "view", snap.ViewID, "files", len(res.Written))
			return writeOut(cmd, app, publishResult{res})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

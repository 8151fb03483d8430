package cli

import (
	"fmt"

	"outline-engine/internal/snapshot"
	"outline-engine/internal/tui"

	"github.com/spf13/cobra"
)

type convertResult struct {
	From       string `json:"from"`
	To         string `json:"to"`
	ViewID     string `json:"viewId"`
	Placements int    `json:"placements"`
	Blocks     int    `json:"blocks"`
}

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Work with snapshot files",
	}
	cmd.AddCommand(newSnapshotConvertCmd(app))
	return cmd
}

func newSnapshotConvertCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <from> <to>",
		Short: "Copy a snapshot between JSON and SQLite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.Load(cmd.Context(), args[0], app.ViewID)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("load %s: %w", args[0], err))
			}
			if err := snapshot.Save(cmd.Context(), args[1], snap); err != nil {
				return writeErr(cmd, fmt.Errorf("save %s: %w", args[1], err))
			}
			app.log.Debug("snapshot converted", "from", args[0], "to", args[1])
			return writeOut(cmd, app, convertResult{
				From:       args[0],
				To:         args[1],
				ViewID:     snap.ViewID,
				Placements: len(snap.Placements),
				Blocks:     len(snap.Blocks),
			})
		},
	}
}

func newBrowseCmd(app *App) *cobra.Command {
	var readOnly bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and rearrange a view interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var save func(snapshot.Snapshot) error
			if !readOnly {
				save = func(s snapshot.Snapshot) error {
					app.log.Debug("saving snapshot", "path", app.SnapshotPath)
					return snapshot.Save(cmd.Context(), app.SnapshotPath, s)
				}
			}
			return tui.Run(snap, save)
		},
	}
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Do not write changes back to the snapshot")
	return cmd
}

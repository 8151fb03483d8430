package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"outline-engine/internal/config"
	"outline-engine/internal/format"
	"outline-engine/internal/snapshot"
	"outline-engine/internal/tree"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath   string
	SnapshotPath string
	ViewID       string
	PrettyJSON   bool
	Format       string
	Verbose      bool

	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	cmd := &cobra.Command{
		Use:          "outline",
		Short:        "Build and rearrange outline trees from placement snapshots",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Print the visible rows of a view
  outline --snapshot view.json tree --format text

  # Plan a drag-and-drop move (add --apply to write it back)
  outline --snapshot view.json drop p-3 --before p-1

  # Resolve a key chord in the editor scope
  outline keys editor --key ArrowUp --text "line1\nline2" --start 0

  # Browse interactively
  outline --snapshot view.sqlite browse
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.configure(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("OUTLINE_CONFIG", ""), "Path to config.toml (default: $XDG_CONFIG_HOME/outline-engine/config.toml)")
	cmd.PersistentFlags().StringVar(&app.SnapshotPath, "snapshot", "", "Snapshot file (.json, .sqlite, .db)")
	cmd.PersistentFlags().StringVar(&app.ViewID, "view", "", "View id (overrides the view stored in the snapshot)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "Output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log debug details to stderr")

	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newDropCmd(app))
	cmd.AddCommand(newIndentCmd(app))
	cmd.AddCommand(newOutdentCmd(app))
	cmd.AddCommand(newReorderCmd(app))
	cmd.AddCommand(newKeysCmd(app))
	cmd.AddCommand(newSnapshotCmd(app))
	cmd.AddCommand(newBrowseCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// configure fills unset flags from config file and env, then sets up logging.
func (app *App) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if !flags.Changed("format") {
		app.Format = cfg.Format
	}
	if !flags.Changed("pretty") {
		app.PrettyJSON = cfg.Pretty
	}
	if !flags.Changed("snapshot") {
		app.SnapshotPath = cfg.Snapshot
	}
	if !flags.Changed("view") {
		app.ViewID = cfg.View
	}

	level := parseLevel(cfg.LogLevel)
	if app.Verbose {
		level = slog.LevelDebug
	}
	app.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	app.log.Debug("config loaded", "format", app.Format, "snapshot", app.SnapshotPath, "view", app.ViewID)
	return nil
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn
	}
	return l
}

func loadSnapshot(cmd *cobra.Command, app *App) (snapshot.Snapshot, error) {
	path := strings.TrimSpace(app.SnapshotPath)
	if path == "" {
		return snapshot.Snapshot{}, errors.New("no snapshot; pass --snapshot or set OUTLINE_SNAPSHOT")
	}
	snap, err := snapshot.Load(cmd.Context(), path, app.ViewID)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	app.log.Debug("snapshot loaded", "path", path, "view", snap.ViewID, "placements", len(snap.Placements), "blocks", len(snap.Blocks))
	return snap, nil
}

func loadTree(cmd *cobra.Command, app *App) (snapshot.Snapshot, tree.Data, error) {
	snap, err := loadSnapshot(cmd, app)
	if err != nil {
		return snapshot.Snapshot{}, tree.Data{}, err
	}
	return snap, tree.Build(snap.Input()), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

package cli

import (
	"strings"

	"outline-engine/internal/keys"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type keyResult struct {
	Scope  string      `json:"scope"`
	Chord  keys.Chord  `json:"chord"`
	Action keys.Action `json:"action"`
}

func (r keyResult) Text(*lipgloss.Renderer) string { return string(r.Action) }

type chordFlags struct {
	key               string
	meta, ctrl, shift bool
}

func (f *chordFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.key, "key", "", "Key name as a KeyboardEvent reports it (ArrowUp, Enter, z, ...)")
	cmd.Flags().BoolVar(&f.meta, "meta", false, "Meta (Cmd) held")
	cmd.Flags().BoolVar(&f.ctrl, "ctrl", false, "Ctrl held")
	cmd.Flags().BoolVar(&f.shift, "shift", false, "Shift held")
	_ = cmd.MarkFlagRequired("key")
}

func (f chordFlags) chord() keys.Chord {
	return keys.Chord{Key: f.key, Meta: f.meta, Ctrl: f.ctrl, Shift: f.shift}
}

func newKeysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Resolve key chords to outline actions",
	}
	cmd.AddCommand(newKeysEditorCmd(app))
	cmd.AddCommand(newKeysContainerCmd(app))
	return cmd
}

func newKeysEditorCmd(app *App) *cobra.Command {
	var f chordFlags
	var text string
	var start, end int
	cmd := &cobra.Command{
		Use:   "editor",
		Short: "Resolve a chord pressed while editing row text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("end") {
				end = start
			}
			// Allow literal "\n" so multi-line text can be passed on one shell line.
			text = strings.ReplaceAll(text, `\n`, "\n")
			c := f.chord()
			a := keys.ResolveEditor(c, keys.EditorContext{Text: text, SelectionStart: start, SelectionEnd: end})
			return writeOut(cmd, app, keyResult{Scope: "editor", Chord: c, Action: a})
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&text, "text", "", "Row text")
	cmd.Flags().IntVar(&start, "start", 0, "Selection start (character offset)")
	cmd.Flags().IntVar(&end, "end", 0, "Selection end (defaults to --start)")
	return cmd
}

func newKeysContainerCmd(app *App) *cobra.Command {
	var f chordFlags
	var selected bool
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Resolve a chord pressed while a row is selected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := f.chord()
			a := keys.ResolveContainer(c, keys.ContainerContext{HasSelection: selected})
			return writeOut(cmd, app, keyResult{Scope: "container", Chord: c, Action: a})
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&selected, "selected", true, "A row is selected")
	return cmd
}

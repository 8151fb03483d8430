package cli

import (
	"fmt"
	"strings"

	"outline-engine/internal/docs"
	"outline-engine/internal/format"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const docsWidth = 80

type docsResult struct {
	Topics   []string `json:"topics,omitempty"`
	Topic    string   `json:"topic,omitempty"`
	Markdown string   `json:"markdown,omitempty"`
}

func (r docsResult) Text(re *lipgloss.Renderer) string {
	if r.Topic == "" {
		return strings.Join(r.Topics, "\n")
	}
	return format.Markdown(re, r.Markdown, docsWidth)
}

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, docsResult{Topics: docs.Topics()})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `outline docs` to list topics)", topic))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, docsResult{Topic: strings.ToLower(topic), Markdown: body})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	return cmd
}

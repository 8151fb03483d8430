package cli

import (
	"fmt"
	"strings"

	"outline-engine/internal/format"
	"outline-engine/internal/model"
	"outline-engine/internal/mutate"
	"outline-engine/internal/order"
	"outline-engine/internal/snapshot"
	"outline-engine/internal/tree"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// planResult is printed for every structural command. A missing plan is a normal outcome
// (the move was a no-op or invalid) and carries a reason instead of an error.
type planResult struct {
	Plan    *mutate.DropPlan      `json:"plan"`
	Writes  *mutate.ReorderWrites `json:"writes,omitempty"`
	Reason  string                `json:"reason,omitempty"`
	Applied bool                  `json:"applied"`

	rows []tree.Row
}

func (r planResult) Text(re *lipgloss.Renderer) string {
	if r.Plan == nil {
		return "no change: " + r.Reason
	}
	parent := model.Deref(r.Plan.NextParentPlacementID)
	if parent == "" {
		parent = "(root)"
	}
	head := fmt.Sprintf("move %s (%d placement(s)) under %s", r.Plan.SourcePlacementID, len(r.Plan.MovedPlacementIDs), parent)
	if r.Applied {
		head += ", applied"
	}
	if len(r.rows) == 0 {
		return head
	}
	return head + "\n\n" + format.Outline(re, r.rows, 0)
}

type planFunc func(d tree.Data) (mutate.DropPlan, bool)

// runPlan loads the snapshot, plans, and optionally writes the result back.
func runPlan(cmd *cobra.Command, app *App, apply bool, ids []string, plan planFunc) error {
	snap, d, err := loadTree(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	p, ok := plan(d)
	if !ok {
		reason := noPlanReason(d, ids)
		app.log.Debug("no plan", "ids", ids, "reason", reason)
		return writeOut(cmd, app, planResult{Reason: reason})
	}
	writes := mutate.PlanWrites(d, p)
	out := planResult{Plan: &p, Writes: &writes}
	app.log.Debug("plan computed", "source", p.SourcePlacementID, "moved", len(p.MovedPlacementIDs), "parentPatches", len(writes.ParentPatches))

	if apply {
		next, err := applyPlan(snap, p)
		if err != nil {
			return writeErr(cmd, err)
		}
		if err := snapshot.Save(cmd.Context(), app.SnapshotPath, next); err != nil {
			return writeErr(cmd, fmt.Errorf("save snapshot: %w", err))
		}
		out.Applied = true
		out.rows = tree.Build(next.Input()).FlatRows
		app.log.Info("plan applied", "path", app.SnapshotPath, "source", p.SourcePlacementID)
	}
	return writeOut(cmd, app, out)
}

func applyPlan(snap snapshot.Snapshot, p mutate.DropPlan) (snapshot.Snapshot, error) {
	in := snap.Input()
	placements, blocks, err := mutate.ApplyPlan(in.Placements, in.Blocks, p, order.KeysForOrder(p.OrderedPlacementIDs))
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snap.WithRecords(placements, blocks), nil
}

func noPlanReason(d tree.Data, ids []string) string {
	for _, id := range ids {
		if _, ok := d.PlacementByID[id]; !ok {
			return "unknown placement " + id
		}
	}
	return "move is a no-op or would nest a placement inside itself"
}

func newDropCmd(app *App) *cobra.Command {
	var before, after, inside string
	var apply bool
	cmd := &cobra.Command{
		Use:   "drop <placement-id>",
		Short: "Plan moving a placement (and its subtree) before, after or inside another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := mutate.DropRequest{SourcePlacementID: strings.TrimSpace(args[0])}
			n := 0
			for _, opt := range []struct {
				val    string
				intent mutate.Intent
			}{{before, mutate.Before}, {after, mutate.After}, {inside, mutate.Inside}} {
				if strings.TrimSpace(opt.val) != "" {
					req.TargetPlacementID = strings.TrimSpace(opt.val)
					req.Intent = opt.intent
					n++
				}
			}
			if n != 1 {
				return writeErr(cmd, errExactlyOne("before", "after", "inside"))
			}
			return runPlan(cmd, app, apply, []string{req.SourcePlacementID, req.TargetPlacementID}, func(d tree.Data) (mutate.DropPlan, bool) {
				return mutate.PlanDrop(d, req)
			})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Target placement to land before")
	cmd.Flags().StringVar(&after, "after", "", "Target placement to land after (past its subtree)")
	cmd.Flags().StringVar(&inside, "inside", "", "Target placement to become the last child of")
	cmd.Flags().BoolVar(&apply, "apply", false, "Write the result back to the snapshot")
	return cmd
}

func newIndentCmd(app *App) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "indent <placement-id>",
		Short: "Nest a placement under its previous sibling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runPlan(cmd, app, apply, []string{id}, func(d tree.Data) (mutate.DropPlan, bool) {
				return mutate.PlanIndent(d, id)
			})
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Write the result back to the snapshot")
	return cmd
}

func newOutdentCmd(app *App) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "outdent <placement-id>",
		Short: "Move a placement out to follow its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runPlan(cmd, app, apply, []string{id}, func(d tree.Data) (mutate.DropPlan, bool) {
				return mutate.PlanOutdent(d, id)
			})
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Write the result back to the snapshot")
	return cmd
}

func newReorderCmd(app *App) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "reorder <placement-id> <up|down>",
		Short: "Swap a placement with its neighbouring sibling",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			dir := order.Direction(strings.ToLower(strings.TrimSpace(args[1])))
			if dir != order.Up && dir != order.Down {
				return writeErr(cmd, fmt.Errorf("invalid direction %q (expected up or down)", args[1]))
			}
			return runPlan(cmd, app, apply, []string{id}, func(d tree.Data) (mutate.DropPlan, bool) {
				return mutate.PlanReorder(d, id, dir)
			})
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Write the result back to the snapshot")
	return cmd
}

package mutate

import (
	"outline-engine/internal/order"
	"outline-engine/internal/tree"
)

// Keyboard structural commands are expressed as drops so they share the planner's cycle
// and no-op checks.

// PlanIndent nests id as the last child of its previous sibling.
func PlanIndent(d tree.Data, id string) (DropPlan, bool) {
	prev, ok := order.FindSiblingSwapTarget(d.Siblings(id), id, order.Up)
	if !ok {
		return DropPlan{}, false
	}
	return PlanDrop(d, DropRequest{SourcePlacementID: id, TargetPlacementID: prev.ID, Intent: Inside})
}

// PlanOutdent moves id out of its parent, landing right after the parent's subtree.
func PlanOutdent(d tree.Data, id string) (DropPlan, bool) {
	parent := d.EffectiveParentByPlacementID[id]
	if parent == "" {
		return DropPlan{}, false
	}
	return PlanDrop(d, DropRequest{SourcePlacementID: id, TargetPlacementID: parent, Intent: After})
}

// PlanReorder swaps id with its neighbouring sibling in dir, carrying both subtrees.
func PlanReorder(d tree.Data, id string, dir order.Direction) (DropPlan, bool) {
	target, ok := order.FindSiblingSwapTarget(d.Siblings(id), id, dir)
	if !ok {
		return DropPlan{}, false
	}
	intent := Before
	if dir == order.Down {
		intent = After
	}
	return PlanDrop(d, DropRequest{SourcePlacementID: id, TargetPlacementID: target.ID, Intent: intent})
}

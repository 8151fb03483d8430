package mutate

import (
	"sort"

	"outline-engine/internal/model"
	"outline-engine/internal/tree"
)

// ReorderWrites is the persistence hand-off for a plan, shaped like the store's
// placements.reorder request: the full ordered id list with the revisions it was computed
// against, plus the parent pointer change for the moved root.
type ReorderWrites struct {
	ViewID              string        `json:"viewId"`
	OrderedPlacementIDs []string      `json:"orderedPlacementIds"`
	ExpectedRevisions   []int64       `json:"expectedRevisions"`
	ParentPatches       []ParentPatch `json:"parentPatches,omitempty"`
}

type ParentPatch struct {
	PlacementID       string  `json:"placementId"`
	ParentPlacementID *string `json:"parentPlacementId"`
	ExpectedRevision  int64   `json:"expectedRevision"`
}

// PlanWrites derives the writes needed to persist plan against d.
func PlanWrites(d tree.Data, plan DropPlan) ReorderWrites {
	w := ReorderWrites{
		OrderedPlacementIDs: append([]string(nil), plan.OrderedPlacementIDs...),
		ExpectedRevisions:   make([]int64, 0, len(plan.OrderedPlacementIDs)),
	}
	for _, id := range plan.OrderedPlacementIDs {
		p := d.PlacementByID[id]
		if w.ViewID == "" {
			w.ViewID = p.ViewID
		}
		w.ExpectedRevisions = append(w.ExpectedRevisions, p.Revision)
	}

	src, ok := d.PlacementByID[plan.SourcePlacementID]
	if !ok {
		return w
	}
	next := model.Deref(plan.NextParentPlacementID)
	// The stored pointer may be unset while the effective parent comes from the block, so
	// both have to agree with the target before the patch can be skipped.
	if model.Deref(src.ParentPlacementID) != next || d.EffectiveParentByPlacementID[src.ID] != next {
		patch := ParentPatch{PlacementID: src.ID, ExpectedRevision: src.Revision}
		if next != "" {
			patch.ParentPlacementID = model.Ptr(next)
		}
		w.ParentPatches = append(w.ParentPatches, patch)
	}
	return w
}

// ApplyPlan returns new placement and block snapshots with plan applied. Placements named
// in keys take those order keys (order.KeysForOrder rekeys a whole view) and the moved root
// gets its new parent pointer. Blocks are left alone unless the root moves to the top level
// while its block still names a parent; then the block parent is cleared, which is only
// done when the root is the block's sole placement. The result is rebuilt and checked
// against the plan, so keys the sibling comparator would reorder are refused. Inputs are
// not modified.
func ApplyPlan(placements []model.Placement, blocks map[string]model.Block, plan DropPlan, keys map[string]string) ([]model.Placement, map[string]model.Block, error) {
	byID := make(map[string]model.Placement, len(placements))
	for _, p := range placements {
		byID[p.ID] = p
	}
	src, ok := byID[plan.SourcePlacementID]
	if !ok {
		return nil, nil, NotFoundError{Kind: "placement", ID: plan.SourcePlacementID}
	}

	inPlan := make(map[string]bool, len(plan.OrderedPlacementIDs))
	for _, id := range plan.OrderedPlacementIDs {
		inPlan[id] = true
	}
	var missing []string
	for _, p := range placements {
		if _, known := blocks[p.BlockID]; known && !inPlan[p.ID] {
			missing = append(missing, p.ID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nil, StalePlanError{Missing: missing}
	}

	nextParent := model.Deref(plan.NextParentPlacementID)
	out := make([]model.Placement, 0, len(placements))
	for _, p := range placements {
		changed := false
		if k, ok := keys[p.ID]; ok && k != p.OrderKey {
			p.OrderKey = k
			changed = true
		}
		if p.ID == src.ID && model.Deref(p.ParentPlacementID) != nextParent {
			if nextParent == "" {
				p.ParentPlacementID = nil
			} else {
				p.ParentPlacementID = model.Ptr(nextParent)
			}
			changed = true
		}
		if changed {
			p.Revision++
		}
		out = append(out, p)
	}

	nextBlocks := make(map[string]model.Block, len(blocks))
	for id, b := range blocks {
		nextBlocks[id] = b
	}
	if b, ok := nextBlocks[src.BlockID]; ok && nextParent == "" && b.ParentBlockID != nil {
		for _, p := range placements {
			if p.BlockID == b.ID && p.ID != src.ID {
				return nil, nil, SharedBlockError{PlacementID: src.ID, BlockID: b.ID}
			}
		}
		b.ParentBlockID = nil
		nextBlocks[b.ID] = b
	}

	if err := checkRebuild(tree.Build(tree.Input{Placements: out, Blocks: nextBlocks}), plan); err != nil {
		return nil, nil, err
	}
	return out, nextBlocks, nil
}

// checkRebuild verifies that next keeps the moved root under the planned parent and every
// sibling list in the planned relative order.
func checkRebuild(next tree.Data, plan DropPlan) error {
	if got, want := next.EffectiveParentByPlacementID[plan.SourcePlacementID], model.Deref(plan.NextParentPlacementID); got != want {
		return OrderConflictError{PlacementID: plan.SourcePlacementID}
	}
	pos := make(map[string]int, len(plan.OrderedPlacementIDs))
	for i, id := range plan.OrderedPlacementIDs {
		pos[id] = i
	}
	for _, kids := range next.ChildrenByParentKey {
		for i := 1; i < len(kids); i++ {
			if pos[kids[i-1]] > pos[kids[i]] {
				return OrderConflictError{PlacementID: kids[i-1]}
			}
		}
	}
	return nil
}

// Package mutate plans structural moves over a built tree. Plans describe the new
// canonical order and parent; persisting them is the caller's job.
package mutate

import (
	"outline-engine/internal/tree"
)

type Intent string

const (
	Before Intent = "before"
	After  Intent = "after"
	Inside Intent = "inside"
)

func (i Intent) Valid() bool {
	switch i {
	case Before, After, Inside:
		return true
	default:
		return false
	}
}

type DropRequest struct {
	SourcePlacementID string `json:"sourcePlacementId"`
	TargetPlacementID string `json:"targetPlacementId"`
	Intent            Intent `json:"intent"`
}

// DropPlan is the outcome of a valid, non-redundant move.
// NextParentPlacementID is nil when the moved subtree lands at the root.
type DropPlan struct {
	SourcePlacementID     string   `json:"sourcePlacementId"`
	OrderedPlacementIDs   []string `json:"orderedPlacementIds"`
	MovedPlacementIDs     []string `json:"movedPlacementIds"`
	NextParentPlacementID *string  `json:"nextParentPlacementId"`
}

// PlanDrop computes the order and parent that result from dropping the source subtree
// before, after or inside the target. ok is false for unknown ids, drops onto the moved
// subtree itself, moves that would create a cycle, and moves that change nothing.
func PlanDrop(d tree.Data, req DropRequest) (DropPlan, bool) {
	ordered := d.OrderedPlacementIDs
	src, dst := req.SourcePlacementID, req.TargetPlacementID
	if !req.Intent.Valid() || !contains(ordered, src) || !contains(ordered, dst) {
		return DropPlan{}, false
	}

	moved := subtree(d, src)
	if moved[dst] {
		return DropPlan{}, false
	}

	nextParent := d.EffectiveParentByPlacementID[dst]
	if req.Intent == Inside {
		nextParent = dst
	}
	if nextParent != "" && moved[nextParent] {
		return DropPlan{}, false
	}

	movedIDs := make([]string, 0, len(moved))
	remaining := make([]string, 0, len(ordered))
	for _, id := range ordered {
		if moved[id] {
			movedIDs = append(movedIDs, id)
		} else {
			remaining = append(remaining, id)
		}
	}

	insertAt := -1
	switch req.Intent {
	case Before:
		insertAt = indexOf(remaining, dst)
		if insertAt < 0 {
			return DropPlan{}, false
		}
	default:
		// Land after the last non-moved node of the target's subtree so existing
		// children keep their order ahead of the dropped one.
		span := subtree(d, dst)
		anchor := ""
		for i := len(ordered) - 1; i >= 0; i-- {
			id := ordered[i]
			if span[id] && !moved[id] {
				anchor = id
				break
			}
		}
		if anchor == "" {
			insertAt = len(remaining)
		} else {
			insertAt = indexOf(remaining, anchor) + 1
		}
	}

	next := make([]string, 0, len(ordered))
	next = append(next, remaining[:insertAt]...)
	next = append(next, movedIDs...)
	next = append(next, remaining[insertAt:]...)

	if sameOrder(next, ordered) && nextParent == d.EffectiveParentByPlacementID[src] {
		return DropPlan{}, false
	}

	plan := DropPlan{
		SourcePlacementID:   src,
		OrderedPlacementIDs: next,
		MovedPlacementIDs:   movedIDs,
	}
	if nextParent != "" {
		p := nextParent
		plan.NextParentPlacementID = &p
	}
	return plan, true
}

// subtree returns id and everything below it, following the effective-parent adjacency.
func subtree(d tree.Data, id string) map[string]bool {
	seen := map[string]bool{id: true}
	var walk func(cur string, path map[string]bool)
	walk = func(cur string, path map[string]bool) {
		path[cur] = true
		for _, ch := range d.ChildrenByParentKey[cur] {
			if path[ch] || seen[ch] {
				continue
			}
			seen[ch] = true
			walk(ch, path)
		}
		delete(path, cur)
	}
	walk(id, map[string]bool{})
	return seen
}

func contains(ids []string, id string) bool {
	return indexOf(ids, id) >= 0
}

func indexOf(ids []string, id string) int {
	for i := range ids {
		if ids[i] == id {
			return i
		}
	}
	return -1
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

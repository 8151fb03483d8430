// Package order defines the total order over sibling placements and the helpers built on it.
package order

import (
	"sort"
	"strings"

	"outline-engine/internal/model"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ComparePlacements orders pinned placements first, then by order key, then by id.
// Keys compare byte-wise; equal keys fall back to the id so the order is strict.
func ComparePlacements(a, b model.Placement) int {
	if a.Pinned != b.Pinned {
		if a.Pinned {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.OrderKey, b.OrderKey); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// SortPlacements returns a sorted copy of ps. The input slice is not modified.
func SortPlacements(ps []model.Placement) []model.Placement {
	out := append([]model.Placement(nil), ps...)
	sort.SliceStable(out, func(i, j int) bool {
		return ComparePlacements(out[i], out[j]) < 0
	})
	return out
}

// InsertPlacementAfter returns a copy of ids with id inserted directly after afterID.
// When afterID is not present, id is appended. An existing occurrence of id is moved.
func InsertPlacementAfter(ids []string, id, afterID string) []string {
	out := make([]string, 0, len(ids)+1)
	inserted := false
	for _, cur := range ids {
		if cur == id {
			continue
		}
		out = append(out, cur)
		if cur == afterID {
			out = append(out, id)
			inserted = true
		}
	}
	if !inserted {
		out = append(out, id)
	}
	return out
}

// FindSiblingSwapTarget returns the sibling directly above (Up) or below (Down) id in the
// canonical sibling order. ok is false when id is unknown or already at that edge.
func FindSiblingSwapTarget(siblings []model.Placement, id string, dir Direction) (model.Placement, bool) {
	sorted := SortPlacements(siblings)
	idx := -1
	for i := range sorted {
		if sorted[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Placement{}, false
	}
	switch dir {
	case Up:
		if idx == 0 {
			return model.Placement{}, false
		}
		return sorted[idx-1], true
	case Down:
		if idx+1 >= len(sorted) {
			return model.Placement{}, false
		}
		return sorted[idx+1], true
	default:
		return model.Placement{}, false
	}
}

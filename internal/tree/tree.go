// Package tree rebuilds the outline from flat placement records.
//
// Parentage has two sources: a placement's own parentPlacementId and the canonical
// parentBlockId of its block. Both are resolved once per build into a single
// effective-parent map keyed by placement id. Nodes never hold references to each
// other, and every recursive walk carries a per-path visited set, so corrupt input
// (cycles, dangling ids) degrades to a truncated subtree instead of looping.
package tree

import (
	"outline-engine/internal/model"
	"outline-engine/internal/order"
	"outline-engine/internal/overlay"
)

// RootKey is the ChildrenByParentKey entry holding top-level placements.
const RootKey = "__root__"

// Input is one view's snapshot. Maps are read, never written.
type Input struct {
	Placements []model.Placement
	Blocks     map[string]model.Block
	Atoms      map[string]model.Atom
	Collapsed  map[string]bool
	Conditions map[string][]model.Condition // keyed by atom id
}

type Row struct {
	PlacementID                string           `json:"placementId"`
	Placement                  model.Placement  `json:"placement"`
	Block                      model.Block      `json:"block"`
	Atom                       *model.Atom      `json:"atom,omitempty"`
	Depth                      int              `json:"depth"`
	HasChildren                bool             `json:"hasChildren"`
	DescendantCount            int              `json:"descendantCount"`
	Collapsed                  bool             `json:"collapsed"`
	EffectiveParentPlacementID string           `json:"effectiveParentPlacementId,omitempty"`
	Overlay                    *model.Condition `json:"overlay,omitempty"`
}

// Data is the result of Build.
//
// EffectiveParentByPlacementID has an entry for every placement in the tree, including
// hidden ones; "" means root. OrderedPlacementIDs is the full canonical order and ignores
// collapse state.
type Data struct {
	FlatRows                     []Row                      `json:"flatRows"`
	RowByPlacementID             map[string]Row             `json:"rowByPlacementId"`
	EffectiveParentByPlacementID map[string]string          `json:"effectiveParentByPlacementId"`
	ChildrenByParentKey          map[string][]string        `json:"childrenByParentKey"`
	OrderedPlacementIDs          []string                   `json:"orderedPlacementIds"`
	PlacementByID                map[string]model.Placement `json:"-"`
}

// Build converts a flat placement list into rows. It is a pure function of in.
func Build(in Input) Data {
	sorted := order.SortPlacements(in.Placements)

	// Placements whose block is unknown are dropped; a repeated id keeps its first
	// occurrence in canonical order.
	nodes := make([]model.Placement, 0, len(sorted))
	byID := make(map[string]model.Placement, len(sorted))
	for _, p := range sorted {
		if _, ok := in.Blocks[p.BlockID]; !ok {
			continue
		}
		if _, dup := byID[p.ID]; dup {
			continue
		}
		byID[p.ID] = p
		nodes = append(nodes, p)
	}

	anchorByBlock := make(map[string]string, len(nodes))
	for _, p := range nodes {
		if _, ok := anchorByBlock[p.BlockID]; !ok {
			anchorByBlock[p.BlockID] = p.ID
		}
	}

	parentOf := make(map[string]string, len(nodes))
	for _, p := range nodes {
		parentOf[p.ID] = effectiveParent(p, in.Blocks[p.BlockID], byID, anchorByBlock)
	}

	ordered := make([]string, 0, len(nodes))
	children := map[string][]string{}
	for _, p := range nodes {
		ordered = append(ordered, p.ID)
		key := parentOf[p.ID]
		if key == "" {
			key = RootKey
		}
		children[key] = append(children[key], p.ID)
	}

	counts := make(map[string]int, len(nodes))
	for _, p := range nodes {
		counts[p.ID] = countDescendants(p.ID, children, map[string]bool{})
	}

	d := Data{
		FlatRows:                     make([]Row, 0, len(nodes)),
		RowByPlacementID:             make(map[string]Row, len(nodes)),
		EffectiveParentByPlacementID: parentOf,
		ChildrenByParentKey:          children,
		OrderedPlacementIDs:          ordered,
		PlacementByID:                byID,
	}

	emitted := map[string]bool{}
	var walk func(id string, depth int, path map[string]bool)
	walk = func(id string, depth int, path map[string]bool) {
		if emitted[id] {
			return
		}
		emitted[id] = true
		row := newRow(in, byID[id], depth, children[id], counts[id], parentOf[id])
		d.FlatRows = append(d.FlatRows, row)
		d.RowByPlacementID[id] = row
		if row.Collapsed {
			return
		}
		path[id] = true
		for _, ch := range children[id] {
			if path[ch] {
				continue
			}
			walk(ch, depth+1, path)
		}
		delete(path, id)
	}
	for _, id := range children[RootKey] {
		walk(id, 0, map[string]bool{})
	}
	return d
}

func effectiveParent(p model.Placement, b model.Block, byID map[string]model.Placement, anchorByBlock map[string]string) string {
	parent := ""
	if pid := model.Deref(p.ParentPlacementID); pid != "" {
		if _, ok := byID[pid]; ok {
			parent = pid
		}
	}
	if parent == "" {
		if bid := model.Deref(b.ParentBlockID); bid != "" {
			parent = anchorByBlock[bid]
		}
	}
	if parent == p.ID {
		return ""
	}
	return parent
}

func countDescendants(id string, children map[string][]string, path map[string]bool) int {
	path[id] = true
	n := 0
	for _, ch := range children[id] {
		if path[ch] {
			continue
		}
		n += 1 + countDescendants(ch, children, path)
	}
	delete(path, id)
	return n
}

func newRow(in Input, p model.Placement, depth int, kids []string, count int, parentID string) Row {
	b := in.Blocks[p.BlockID]
	row := Row{
		PlacementID:                p.ID,
		Placement:                  p,
		Block:                      b,
		Depth:                      depth,
		HasChildren:                len(kids) > 0,
		DescendantCount:            count,
		Collapsed:                  in.Collapsed[p.ID],
		EffectiveParentPlacementID: parentID,
	}
	if a, ok := in.Atoms[b.AtomID]; ok {
		row.Atom = &a
	}
	if c, ok := overlay.Active(in.Conditions[b.AtomID]); ok {
		row.Overlay = &c
	}
	return row
}

// Children returns the direct children of parentID in canonical order; "" means roots.
func (d Data) Children(parentID string) []string {
	if parentID == "" {
		parentID = RootKey
	}
	return d.ChildrenByParentKey[parentID]
}

// Siblings returns the placements sharing id's effective parent, id included.
func (d Data) Siblings(id string) []model.Placement {
	parent, ok := d.EffectiveParentByPlacementID[id]
	if !ok {
		return nil
	}
	kids := d.Children(parent)
	out := make([]model.Placement, 0, len(kids))
	for _, k := range kids {
		out = append(out, d.PlacementByID[k])
	}
	return out
}

// Descendants returns every placement below id, in canonical order, hidden ones included.
func (d Data) Descendants(id string) []string {
	seen := map[string]bool{}
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
	out := []string{}
	for _, pid := range d.OrderedPlacementIDs {
		if seen[pid] && pid != id {
			out = append(out, pid)
		}
	}
	return out
}

// VisibleIndex returns id's position in FlatRows, or -1 when it is hidden or unknown.
func (d Data) VisibleIndex(id string) int {
	for i := range d.FlatRows {
		if d.FlatRows[i].PlacementID == id {
			return i
		}
	}
	return -1
}

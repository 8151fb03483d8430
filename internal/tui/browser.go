package tui

import (
	"strings"

	"outline-engine/internal/model"
	"outline-engine/internal/mutate"
	"outline-engine/internal/order"
	"outline-engine/internal/snapshot"
	"outline-engine/internal/tree"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/google/uuid"
)

const historyLimit = 100

type browser struct {
	snap snapshot.Snapshot
	data tree.Data
	save func(snapshot.Snapshot) error

	selected string
	offset   int
	editing  bool
	input    textinput.Model
	help     help.Model

	undo []snapshot.Snapshot
	redo []snapshot.Snapshot

	clipboard string
	status    string
	statusErr bool

	width  int
	height int
}

func newBrowser(snap snapshot.Snapshot, save func(snapshot.Snapshot) error) browser {
	m := browser{snap: snap, save: save, help: help.New()}
	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.CharLimit = 500
	m.rebuild()
	return m
}

// rebuild recomputes the tree and keeps the selection on a visible row.
func (m *browser) rebuild() {
	m.data = tree.Build(m.snap.Input())
	if len(m.data.FlatRows) == 0 {
		m.selected = ""
		return
	}
	if _, ok := m.data.RowByPlacementID[m.selected]; ok {
		return
	}
	if id := m.visibleAncestor(m.selected); id != "" {
		m.selected = id
		return
	}
	m.selected = m.data.FlatRows[0].PlacementID
}

func (m *browser) visibleAncestor(id string) string {
	seen := map[string]bool{}
	for cur := m.data.EffectiveParentByPlacementID[id]; cur != "" && !seen[cur]; cur = m.data.EffectiveParentByPlacementID[cur] {
		seen[cur] = true
		if _, ok := m.data.RowByPlacementID[cur]; ok {
			return cur
		}
	}
	return ""
}

func (m *browser) selectedRow() (tree.Row, bool) {
	r, ok := m.data.RowByPlacementID[m.selected]
	return r, ok
}

func (m *browser) selectIndex(i int) {
	rows := m.data.FlatRows
	if len(rows) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(rows) {
		i = len(rows) - 1
	}
	m.selected = rows[i].PlacementID
}

func (m *browser) moveSelection(delta int) {
	m.selectIndex(m.data.VisibleIndex(m.selected) + delta)
}

func (m *browser) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *browser) fail(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// commit records the current snapshot for undo, installs next, and saves it.
func (m *browser) commit(next snapshot.Snapshot) {
	m.undo = append(m.undo, m.snap)
	if len(m.undo) > historyLimit {
		m.undo = m.undo[len(m.undo)-historyLimit:]
	}
	m.redo = nil
	m.snap = next
	m.rebuild()
	m.persist()
}

func (m *browser) persist() {
	if m.save == nil {
		return
	}
	if err := m.save(m.snap); err != nil {
		m.fail(err)
	}
}

func (m *browser) undoStructure() {
	if len(m.undo) == 0 {
		m.setStatus("nothing to undo")
		return
	}
	m.redo = append(m.redo, m.snap)
	m.snap = m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.rebuild()
	m.persist()
	m.setStatus("undone")
}

func (m *browser) redoStructure() {
	if len(m.redo) == 0 {
		m.setStatus("nothing to redo")
		return
	}
	m.undo = append(m.undo, m.snap)
	m.snap = m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.rebuild()
	m.persist()
	m.setStatus("redone")
}

// applyPlan rekeys the view from plan and commits the result.
func (m *browser) applyPlan(p mutate.DropPlan) {
	in := m.snap.Input()
	placements, blocks, err := mutate.ApplyPlan(in.Placements, in.Blocks, p, order.KeysForOrder(p.OrderedPlacementIDs))
	if err != nil {
		m.fail(err)
		return
	}
	m.commit(m.snap.WithRecords(placements, blocks))
}

func (m *browser) structural(plan func(tree.Data, string) (mutate.DropPlan, bool), what string) {
	if m.selected == "" {
		return
	}
	p, ok := plan(m.data, m.selected)
	if !ok {
		m.setStatus("cannot " + what + " here")
		return
	}
	m.setStatus("")
	m.applyPlan(p)
}

func (m *browser) reorder(dir order.Direction) {
	m.structural(func(d tree.Data, id string) (mutate.DropPlan, bool) {
		return mutate.PlanReorder(d, id, dir)
	}, "move "+string(dir))
}

func (m *browser) setCollapsed(id string, collapsed bool) {
	m.snap.SetCollapsed(id, collapsed)
	m.rebuild()
	m.persist()
}

// expandOrChild opens a collapsed row, or steps into the first child of an open one.
func (m *browser) expandOrChild() {
	row, ok := m.selectedRow()
	if !ok || !row.HasChildren {
		return
	}
	if row.Collapsed {
		m.setCollapsed(row.PlacementID, false)
		return
	}
	if kids := m.data.Children(row.PlacementID); len(kids) > 0 {
		m.selected = kids[0]
	}
}

// collapseOrParent closes an open row, or steps out to the parent.
func (m *browser) collapseOrParent() {
	row, ok := m.selectedRow()
	if !ok {
		return
	}
	if row.HasChildren && !row.Collapsed {
		m.setCollapsed(row.PlacementID, true)
		return
	}
	if parent := row.EffectiveParentPlacementID; parent != "" {
		if _, visible := m.data.RowByPlacementID[parent]; visible {
			m.selected = parent
		}
	}
}

func (m *browser) startEdit() {
	row, ok := m.selectedRow()
	if !ok {
		return
	}
	title := ""
	if row.Atom != nil {
		title = row.Atom.Title()
	}
	m.input.SetValue(title)
	m.input.CursorEnd()
	m.input.Focus()
	m.editing = true
}

// commitEdit stores the edited title on the selected row's atom.
func (m *browser) commitEdit() {
	if !m.editing {
		return
	}
	row, ok := m.selectedRow()
	if !ok {
		return
	}
	text := strings.TrimSpace(m.input.Value())
	atom := model.Atom{ID: row.Block.AtomID}
	if row.Atom != nil {
		atom = *row.Atom
	}
	if atom.ID == "" || atom.Title() == text {
		return
	}
	m.commit(m.snap.WithAtom(atom.WithTitle(text)))
}

func (m *browser) stopEdit() {
	m.commitEdit()
	m.input.Blur()
	m.editing = false
}

// createSibling adds a new row after the selected row's subtree, under the same parent.
func (m *browser) createSibling(title string) {
	u := strings.ReplaceAll(uuid.NewString(), "-", "")
	atom := model.Atom{ID: "atom-" + u}.WithTitle(title)
	blk := model.Block{ID: "blk-" + u, AtomID: atom.ID}
	p := model.Placement{ID: "pl-" + u, ViewID: m.snap.ViewID, BlockID: blk.ID, Revision: 1}

	k, pinned, keyErr := m.keyAfterSelection()
	p.Pinned = pinned

	plan := mutate.DropPlan{SourcePlacementID: p.ID, MovedPlacementIDs: []string{p.ID}}
	if m.selected == "" {
		plan.OrderedPlacementIDs = append(append([]string(nil), m.data.OrderedPlacementIDs...), p.ID)
	} else {
		// Only sibling order has to hold in the flat list.
		plan.OrderedPlacementIDs = order.InsertPlacementAfter(m.data.OrderedPlacementIDs, p.ID, m.selected)
		if parent := m.data.EffectiveParentByPlacementID[m.selected]; parent != "" {
			plan.NextParentPlacementID = model.Ptr(parent)
		}
	}

	in := m.snap.WithAtom(atom).Input()
	in.Blocks[blk.ID] = blk
	all := append(in.Placements, p)
	var placements []model.Placement
	var blocks map[string]model.Block
	err := keyErr
	if err == nil {
		placements, blocks, err = mutate.ApplyPlan(all, in.Blocks, plan, map[string]string{p.ID: k})
	}
	if err != nil {
		// No room between the neighbours: rekey the whole view.
		placements, blocks, err = mutate.ApplyPlan(all, in.Blocks, plan, order.KeysForOrder(plan.OrderedPlacementIDs))
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.commit(m.snap.WithAtom(atom).WithRecords(placements, blocks))
	m.selected = p.ID
}

// keyAfterSelection mints an order key between the selected row and its next sibling, so
// a new row only writes itself. The new row joins the selection's pinned group.
func (m *browser) keyAfterSelection() (string, bool, error) {
	if m.selected == "" {
		lower := ""
		if roots := m.data.Children(""); len(roots) > 0 {
			lower = m.data.PlacementByID[roots[len(roots)-1]].OrderKey
		}
		k, err := order.KeyBetween(lower, "")
		return k, false, err
	}
	sel, ok := m.data.PlacementByID[m.selected]
	if !ok {
		return "", false, mutate.NotFoundError{Kind: "placement", ID: m.selected}
	}
	sibs := m.data.Siblings(sel.ID)
	existing := make(map[string]bool, len(sibs))
	upper := ""
	for i, s := range sibs {
		existing[s.OrderKey] = true
		if s.ID == sel.ID && i+1 < len(sibs) && sibs[i+1].Pinned == sel.Pinned {
			upper = sibs[i+1].OrderKey
		}
	}
	k, err := order.KeyBetweenUnique(existing, sel.OrderKey, upper)
	return k, sel.Pinned, err
}

// deleteRow removes the selected row when it has no children.
func (m *browser) deleteRow() {
	row, ok := m.selectedRow()
	if !ok {
		return
	}
	if row.HasChildren {
		m.setStatus("row has children")
		return
	}
	idx := m.data.VisibleIndex(row.PlacementID)
	m.editing = false
	m.input.Blur()
	m.commit(m.snap.WithoutPlacement(row.PlacementID))
	m.selectIndex(idx - 1)
}

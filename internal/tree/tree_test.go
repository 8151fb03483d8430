package tree

import (
	"reflect"
	"testing"

	"outline-engine/internal/model"
)

type fixture struct {
	placements []model.Placement
	blocks     map[string]model.Block
	atoms      map[string]model.Atom
	collapsed  map[string]bool
	conditions map[string][]model.Condition
}

func newFixture() *fixture {
	return &fixture{
		blocks:     map[string]model.Block{},
		atoms:      map[string]model.Atom{},
		collapsed:  map[string]bool{},
		conditions: map[string][]model.Condition{},
	}
}

// add registers a placement with its own block and atom. parentPlacement and parentBlock
// may be empty.
func (f *fixture) add(id, key, parentPlacement, parentBlock string) {
	blockID := "blk-" + id
	atomID := "atom-" + id
	b := model.Block{ID: blockID, AtomID: atomID}
	if parentBlock != "" {
		b.ParentBlockID = model.Ptr(parentBlock)
	}
	f.blocks[blockID] = b
	f.atoms[atomID] = model.Atom{ID: atomID}
	p := model.Placement{ID: id, ViewID: "view-a", BlockID: blockID, OrderKey: key}
	if parentPlacement != "" {
		p.ParentPlacementID = model.Ptr(parentPlacement)
	}
	f.placements = append(f.placements, p)
}

func (f *fixture) build() Data {
	return Build(Input{
		Placements: f.placements,
		Blocks:     f.blocks,
		Atoms:      f.atoms,
		Collapsed:  f.collapsed,
		Conditions: f.conditions,
	})
}

func rowIDs(d Data) []string {
	out := []string{}
	for _, r := range d.FlatRows {
		out = append(out, r.PlacementID)
	}
	return out
}

func depths(d Data) []int {
	out := []int{}
	for _, r := range d.FlatRows {
		out = append(out, r.Depth)
	}
	return out
}

func TestBuild_NestsByPlacementParent(t *testing.T) {
	f := newFixture()
	f.add("c", "02", "a", "")
	f.add("a", "00", "", "")
	f.add("b", "01", "a", "")
	f.add("d", "03", "", "")

	d := f.build()
	if got, want := rowIDs(d), []string{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected rows %v; got %v", want, got)
	}
	if got, want := depths(d), []int{0, 1, 1, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected depths %v; got %v", want, got)
	}
	a := d.RowByPlacementID["a"]
	if !a.HasChildren || a.DescendantCount != 2 {
		t.Fatalf("expected a to have 2 descendants; got hasChildren=%v count=%d", a.HasChildren, a.DescendantCount)
	}
	if got := d.Children(""); !reflect.DeepEqual(got, []string{"a", "d"}) {
		t.Fatalf("expected roots [a d]; got %v", got)
	}
	if got := d.ChildrenByParentKey[RootKey]; !reflect.DeepEqual(got, []string{"a", "d"}) {
		t.Fatalf("expected root sentinel children [a d]; got %v", got)
	}
}

func TestBuild_FallsBackToBlockParentAnchor(t *testing.T) {
	f := newFixture()
	f.add("p-parent", "00", "", "")
	f.add("p-child", "01", "", "blk-p-parent")

	d := f.build()
	if got := d.EffectiveParentByPlacementID["p-child"]; got != "p-parent" {
		t.Fatalf("expected p-child parent p-parent; got %q", got)
	}
	row := d.RowByPlacementID["p-child"]
	if row.Depth != 1 || row.EffectiveParentPlacementID != "p-parent" {
		t.Fatalf("expected depth-1 child of p-parent; got depth=%d parent=%q", row.Depth, row.EffectiveParentPlacementID)
	}
}

func TestBuild_PlacementParentWinsOverBlockParent(t *testing.T) {
	f := newFixture()
	f.add("x", "00", "", "")
	f.add("y", "01", "", "")
	f.add("z", "02", "y", "blk-x")

	d := f.build()
	if got := d.EffectiveParentByPlacementID["z"]; got != "y" {
		t.Fatalf("expected explicit placement parent y; got %q", got)
	}
}

func TestBuild_DanglingPlacementParentFallsBack(t *testing.T) {
	f := newFixture()
	f.add("x", "00", "", "")
	f.add("z", "01", "gone", "blk-x")

	d := f.build()
	if got := d.EffectiveParentByPlacementID["z"]; got != "x" {
		t.Fatalf("expected block fallback to x; got %q", got)
	}
}

func TestBuild_AnchorIsFirstPlacementOfBlockInCanonicalOrder(t *testing.T) {
	f := newFixture()
	f.add("parent-late", "05", "", "")
	// Second placement of the same block, earlier in canonical order.
	f.placements = append(f.placements, model.Placement{ID: "parent-early", BlockID: "blk-parent-late", OrderKey: "01"})
	f.add("child", "09", "", "blk-parent-late")

	d := f.build()
	if got := d.EffectiveParentByPlacementID["child"]; got != "parent-early" {
		t.Fatalf("expected anchor parent-early; got %q", got)
	}
}

func TestBuild_SelfParentIsRoot(t *testing.T) {
	f := newFixture()
	f.add("solo", "00", "solo", "")
	f.add("blockself", "01", "", "blk-blockself")

	d := f.build()
	if got := d.EffectiveParentByPlacementID["solo"]; got != "" {
		t.Fatalf("expected self-parented placement to be root; got %q", got)
	}
	if got := d.EffectiveParentByPlacementID["blockself"]; got != "" {
		t.Fatalf("expected self-anchored block parent to be root; got %q", got)
	}
	if got := rowIDs(d); !reflect.DeepEqual(got, []string{"solo", "blockself"}) {
		t.Fatalf("expected both as roots; got %v", got)
	}
}

func TestBuild_ExcludesPlacementWithMissingBlock(t *testing.T) {
	f := newFixture()
	f.add("a", "00", "", "")
	f.placements = append(f.placements, model.Placement{ID: "ghost", BlockID: "blk-missing", OrderKey: "01"})

	d := f.build()
	if got := rowIDs(d); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("expected ghost to be excluded; got %v", got)
	}
	if _, ok := d.EffectiveParentByPlacementID["ghost"]; ok {
		t.Fatalf("expected ghost absent from parent map")
	}
	for _, id := range d.OrderedPlacementIDs {
		if id == "ghost" {
			t.Fatalf("expected ghost absent from ordered ids")
		}
	}
}

func TestBuild_CycleTerminatesWithoutDuplicates(t *testing.T) {
	f := newFixture()
	f.add("root", "00", "", "")
	f.add("c1", "01", "c3", "")
	f.add("c2", "02", "c1", "")
	f.add("c3", "03", "c2", "")
	f.add("leaf", "04", "root", "")

	d := f.build()
	if len(d.FlatRows) > len(f.placements) {
		t.Fatalf("expected at most %d rows; got %d", len(f.placements), len(d.FlatRows))
	}
	seen := map[string]bool{}
	for _, id := range rowIDs(d) {
		if seen[id] {
			t.Fatalf("row %s emitted twice", id)
		}
		seen[id] = true
	}
	if got := rowIDs(d); !reflect.DeepEqual(got, []string{"root", "leaf"}) {
		t.Fatalf("expected only root-reachable rows; got %v", got)
	}
	if len(d.OrderedPlacementIDs) != 5 {
		t.Fatalf("expected cycle members kept in canonical order; got %v", d.OrderedPlacementIDs)
	}
}

func TestBuild_TwoNodeCycleViaBlocks(t *testing.T) {
	f := newFixture()
	f.add("a", "00", "", "blk-b")
	f.add("b", "01", "", "blk-a")

	d := f.build()
	if len(d.FlatRows) != 0 {
		t.Fatalf("expected no reachable rows for a pure cycle; got %v", rowIDs(d))
	}
	if got := d.EffectiveParentByPlacementID["a"]; got != "b" {
		t.Fatalf("expected a -> b; got %q", got)
	}
}

func TestBuild_CollapsedHidesChildrenButKeepsOrder(t *testing.T) {
	f := newFixture()
	f.add("a", "00", "", "")
	f.add("a1", "01", "a", "")
	f.add("a1x", "02", "a1", "")
	f.add("b", "03", "", "")
	f.collapsed["a"] = true

	d := f.build()
	if got, want := rowIDs(d), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected visible rows %v; got %v", want, got)
	}
	a := d.RowByPlacementID["a"]
	if !a.Collapsed || !a.HasChildren || a.DescendantCount != 2 {
		t.Fatalf("expected collapsed a with 2 descendants; got %+v", a)
	}
	if got, want := d.OrderedPlacementIDs, []string{"a", "a1", "a1x", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected full canonical order %v; got %v", want, got)
	}
	if got := d.EffectiveParentByPlacementID["a1x"]; got != "a1" {
		t.Fatalf("expected hidden parent entry a1; got %q", got)
	}
	if _, ok := d.RowByPlacementID["a1"]; ok {
		t.Fatalf("expected hidden rows absent from rowByPlacementId")
	}
	if got := d.Descendants("a"); !reflect.DeepEqual(got, []string{"a1", "a1x"}) {
		t.Fatalf("expected descendants [a1 a1x]; got %v", got)
	}
}

func TestBuild_AttachesOverlayAndAtom(t *testing.T) {
	f := newFixture()
	f.add("a", "00", "", "")
	f.conditions["atom-a"] = []model.Condition{
		{ID: "c-date", AtomID: "atom-a", Status: model.ConditionActive, Mode: model.ConditionDate},
		{ID: "c-task", AtomID: "atom-a", Status: model.ConditionActive, Mode: model.ConditionTask},
	}

	d := f.build()
	row := d.RowByPlacementID["a"]
	if row.Overlay == nil || row.Overlay.ID != "c-task" {
		t.Fatalf("expected task overlay; got %+v", row.Overlay)
	}
	if row.Atom == nil || row.Atom.ID != "atom-a" {
		t.Fatalf("expected atom attached; got %+v", row.Atom)
	}
}

func TestBuild_PinnedRootsFirst(t *testing.T) {
	f := newFixture()
	f.add("a", "00", "", "")
	f.add("b", "99", "", "")
	f.placements[1].Pinned = true

	d := f.build()
	if got := rowIDs(d); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("expected pinned b first; got %v", got)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	f := newFixture()
	f.add("a", "00", "", "")
	f.add("b", "01", "a", "")
	f.add("c", "01", "a", "")
	f.add("d", "02", "", "blk-a")
	f.add("e", "03", "e", "")

	first := f.build()
	for i := 0; i < 5; i++ {
		if again := f.build(); !reflect.DeepEqual(first, again) {
			t.Fatalf("expected identical output on rebuild %d", i)
		}
	}
}

func TestSiblingsAndVisibleIndex(t *testing.T) {
	f := newFixture()
	f.add("a", "00", "", "")
	f.add("b", "01", "", "")
	f.add("b1", "02", "b", "")

	d := f.build()
	sibs := d.Siblings("a")
	if len(sibs) != 2 || sibs[0].ID != "a" || sibs[1].ID != "b" {
		t.Fatalf("expected siblings [a b]; got %+v", sibs)
	}
	if got := d.VisibleIndex("b1"); got != 2 {
		t.Fatalf("expected b1 at index 2; got %d", got)
	}
	if got := d.VisibleIndex("nope"); got != -1 {
		t.Fatalf("expected -1 for unknown; got %d", got)
	}
}

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"outline-engine/internal/model"
	"outline-engine/internal/tree"
)

const sampleJSON = `{
  "viewId": "view-a",
  "placements": [
    {"id": "p-a", "viewId": "view-a", "blockId": "b-a", "orderKey": "00000000-a", "revision": 1},
    {"id": "p-b", "viewId": "view-a", "blockId": "b-b", "parentPlacementId": "p-a", "orderKey": "00000001-b", "revision": 2},
    {"id": "p-x", "viewId": "view-b", "blockId": "b-a", "orderKey": "00000000-x", "revision": 1}
  ],
  "blocks": [
    {"id": "b-a", "atomId": "atom-a"},
    {"id": "b-b", "atomId": "atom-b"}
  ],
  "atoms": [
    {"id": "atom-a", "facets": ["meta"], "facetData": {"meta": {"title": "Groceries"}}, "revision": 1},
    {"id": "atom-b", "revision": 1}
  ],
  "conditions": [
    {"id": "c-1", "atomId": "atom-b", "status": "active", "mode": "date", "payload": {"blockedUntil": "2026-11-01"}}
  ],
  "collapsed": ["p-a"]
}`

func sample(t *testing.T) Snapshot {
	t.Helper()
	s, err := LoadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoadJSON_DecodesRecords(t *testing.T) {
	s := sample(t)
	if s.ViewID != "view-a" || len(s.Placements) != 3 || len(s.Blocks) != 2 {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	if got := model.Deref(s.Placements[1].ParentPlacementID); got != "p-a" {
		t.Fatalf("expected parent p-a; got %q", got)
	}
	if got := s.Atoms[0].Title(); got != "Groceries" {
		t.Fatalf("expected title; got %q", got)
	}
	if s.Conditions[0].Payload.BlockedUntil != "2026-11-01" {
		t.Fatalf("expected date payload; got %+v", s.Conditions[0].Payload)
	}
}

func TestLoadJSON_RejectsGarbage(t *testing.T) {
	if _, err := LoadJSON(strings.NewReader("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestInput_FiltersViewAndIndexes(t *testing.T) {
	in := sample(t).Input()
	if len(in.Placements) != 2 {
		t.Fatalf("expected view-b placement dropped; got %d", len(in.Placements))
	}
	if !in.Collapsed["p-a"] {
		t.Fatalf("expected p-a collapsed")
	}
	if len(in.Conditions["atom-b"]) != 1 {
		t.Fatalf("expected condition indexed by atom")
	}

	d := tree.Build(in)
	if len(d.FlatRows) != 1 || d.FlatRows[0].PlacementID != "p-a" || !d.FlatRows[0].Collapsed {
		t.Fatalf("expected only collapsed p-a visible; got %+v", d.FlatRows)
	}
	if d.EffectiveParentByPlacementID["p-b"] != "p-a" {
		t.Fatalf("expected hidden p-b under p-a")
	}
}

func TestSetCollapsed(t *testing.T) {
	s := sample(t)
	s.SetCollapsed("p-b", true)
	s.SetCollapsed("p-a", false)
	if !reflect.DeepEqual(s.Collapsed, []string{"p-b"}) {
		t.Fatalf("expected [p-b]; got %v", s.Collapsed)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fixture.sqlite")
	in := sample(t)
	if err := SaveSQLite(ctx, path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := LoadSQLite(ctx, path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.ViewID != "view-a" {
		t.Fatalf("expected stored view; got %q", out.ViewID)
	}
	if len(out.Placements) != 2 {
		t.Fatalf("expected only view-a placements; got %+v", out.Placements)
	}
	if !reflect.DeepEqual(out.Placements, in.Placements[:2]) {
		t.Fatalf("expected placements to round trip; got %+v", out.Placements)
	}
	if !reflect.DeepEqual(out.Blocks, in.Blocks) || !reflect.DeepEqual(out.Collapsed, in.Collapsed) {
		t.Fatalf("expected blocks and collapsed to round trip; got %+v %v", out.Blocks, out.Collapsed)
	}
	if len(out.Atoms) != 2 || out.Atoms[0].Title() != "Groceries" {
		t.Fatalf("expected atoms to round trip; got %+v", out.Atoms)
	}
	if len(out.Conditions) != 1 || out.Conditions[0].Mode != model.ConditionDate {
		t.Fatalf("expected conditions to round trip; got %+v", out.Conditions)
	}

	other, err := LoadSQLite(ctx, path, "view-b")
	if err != nil {
		t.Fatalf("load view-b: %v", err)
	}
	if len(other.Placements) != 1 || other.Placements[0].ID != "p-x" || len(other.Collapsed) != 0 {
		t.Fatalf("expected view-b records; got %+v", other)
	}
}

func seedSQLite(t *testing.T) (context.Context, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fixture.sqlite")
	if err := SaveSQLite(ctx, path, sample(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	return ctx, path
}

func TestSaveSQLite_KeepsOtherViews(t *testing.T) {
	ctx, path := seedSQLite(t)

	a, err := LoadSQLite(ctx, path, "view-a")
	if err != nil {
		t.Fatalf("load view-a: %v", err)
	}
	a.SetCollapsed("p-b", true)
	if err := SaveSQLite(ctx, path, a); err != nil {
		t.Fatalf("save view-a: %v", err)
	}

	b, err := LoadSQLite(ctx, path, "view-b")
	if err != nil {
		t.Fatalf("load view-b: %v", err)
	}
	if len(b.Placements) != 1 || b.Placements[0].ID != "p-x" {
		t.Fatalf("expected view-b to survive a view-a save; got %+v", b.Placements)
	}
	if len(b.Collapsed) != 0 {
		t.Fatalf("expected no collapse state for view-b; got %v", b.Collapsed)
	}

	a, err = LoadSQLite(ctx, path, "view-a")
	if err != nil {
		t.Fatalf("reload view-a: %v", err)
	}
	if len(a.Placements) != 2 || !reflect.DeepEqual(a.Collapsed, []string{"p-a", "p-b"}) {
		t.Fatalf("expected view-a changes saved; got %+v %v", a.Placements, a.Collapsed)
	}
}

func TestSaveSQLite_KeepsRecordsUsedByOtherViews(t *testing.T) {
	ctx, path := seedSQLite(t)

	b, err := LoadSQLite(ctx, path, "view-b")
	if err != nil {
		t.Fatalf("load view-b: %v", err)
	}
	// b-a looks orphaned from view-b alone, but p-a in view-a still uses it.
	b = b.WithoutPlacement("p-x")
	if err := SaveSQLite(ctx, path, b); err != nil {
		t.Fatalf("save view-b: %v", err)
	}

	a, err := LoadSQLite(ctx, path, "view-a")
	if err != nil {
		t.Fatalf("load view-a: %v", err)
	}
	if len(a.Placements) != 2 || len(a.Blocks) != 2 || len(a.Atoms) != 2 {
		t.Fatalf("expected view-a records intact; got %d placements, %d blocks, %d atoms", len(a.Placements), len(a.Blocks), len(a.Atoms))
	}
	b, err = LoadSQLite(ctx, path, "view-b")
	if err != nil {
		t.Fatalf("reload view-b: %v", err)
	}
	if len(b.Placements) != 0 {
		t.Fatalf("expected p-x removed; got %+v", b.Placements)
	}
}

func TestSaveSQLite_PrunesRemovedRecords(t *testing.T) {
	ctx, path := seedSQLite(t)

	a, err := LoadSQLite(ctx, path, "view-a")
	if err != nil {
		t.Fatalf("load view-a: %v", err)
	}
	a = a.WithoutPlacement("p-b")
	if err := SaveSQLite(ctx, path, a); err != nil {
		t.Fatalf("save view-a: %v", err)
	}

	a, err = LoadSQLite(ctx, path, "view-a")
	if err != nil {
		t.Fatalf("reload view-a: %v", err)
	}
	if len(a.Blocks) != 1 || a.Blocks[0].ID != "b-a" {
		t.Fatalf("expected b-b pruned; got %+v", a.Blocks)
	}
	if len(a.Atoms) != 1 || len(a.Conditions) != 0 {
		t.Fatalf("expected atom-b and its condition pruned; got %+v %+v", a.Atoms, a.Conditions)
	}
}

func TestLoadSQLite_MissingFile(t *testing.T) {
	if _, err := LoadSQLite(context.Background(), filepath.Join(t.TempDir(), "nope.db"), ""); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error; got %v", err)
	}
}

func TestLoadAndSave_DispatchOnExtension(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := sample(t)

	jsonPath := filepath.Join(dir, "view.json")
	if err := Save(ctx, jsonPath, s); err != nil {
		t.Fatalf("save json: %v", err)
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("expected valid json; got %s", raw)
	}
	back, err := Load(ctx, jsonPath, "view-b")
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if back.ViewID != "view-b" || len(back.Placements) != 3 {
		t.Fatalf("expected view override; got %+v", back)
	}

	if err := Save(ctx, filepath.Join(dir, "view.db"), s); err != nil {
		t.Fatalf("save db: %v", err)
	}
	if _, err := Load(ctx, filepath.Join(dir, "view.db"), ""); err != nil {
		t.Fatalf("load db: %v", err)
	}

	if _, err := Load(ctx, filepath.Join(dir, "view.yaml"), ""); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat; got %v", err)
	}
}

func TestWithRecords_MergesByID(t *testing.T) {
	s := sample(t)
	moved := s.Placements[1]
	moved.ParentPlacementID = nil
	added := model.Placement{ID: "p-new", ViewID: "view-a", BlockID: "b-z"}
	blocks := map[string]model.Block{"b-z": {ID: "b-z"}, "b-a": {ID: "b-a"}}

	out := s.WithRecords([]model.Placement{moved, added}, blocks)
	if got := len(out.Placements); got != 4 {
		t.Fatalf("expected 4 placements; got %d", got)
	}
	if out.Placements[1].ParentPlacementID != nil || out.Placements[2].ID != "p-x" || out.Placements[3].ID != "p-new" {
		t.Fatalf("unexpected merge %+v", out.Placements)
	}
	if out.Blocks[0].ID != "b-a" || out.Blocks[1].ID != "b-z" {
		t.Fatalf("expected blocks sorted; got %+v", out.Blocks)
	}
	if s.Placements[1].ParentPlacementID == nil {
		t.Fatalf("expected original untouched")
	}
}

func TestWithoutPlacement_DropsOrphanedRecords(t *testing.T) {
	s := sample(t)

	// b-a is still used by p-x in another view.
	out := s.WithoutPlacement("p-a")
	if len(out.Placements) != 2 || len(out.Blocks) != 2 {
		t.Fatalf("expected shared block kept; got %+v", out)
	}

	out = s.WithoutPlacement("p-b")
	if len(out.Blocks) != 1 || len(out.Atoms) != 1 || len(out.Conditions) != 0 {
		t.Fatalf("expected block, atom and condition of p-b removed; got %+v", out)
	}
	if len(s.Placements) != 3 || len(s.Conditions) != 1 {
		t.Fatalf("expected original untouched")
	}
}

func TestWithAtom(t *testing.T) {
	s := sample(t)
	out := s.WithAtom(s.Atoms[1].WithTitle("Milk"))
	if out.Atoms[1].Title() != "Milk" || s.Atoms[1].Title() != "" {
		t.Fatalf("expected copy with new title; got %+v", out.Atoms[1])
	}
	out = out.WithAtom(model.Atom{ID: "atom-new"})
	if len(out.Atoms) != 3 {
		t.Fatalf("expected appended atom; got %d", len(out.Atoms))
	}
}

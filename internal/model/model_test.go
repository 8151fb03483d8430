package model

import (
	"encoding/json"
	"testing"
)

func TestAtomTitle(t *testing.T) {
	a := Atom{FacetData: map[FacetKind]json.RawMessage{FacetMeta: json.RawMessage(`{"title":"  Call Sam  "}`)}}
	if got := a.Title(); got != "Call Sam" {
		t.Fatalf("expected trimmed title; got %q", got)
	}
	if got := (Atom{}).Title(); got != "" {
		t.Fatalf("expected empty title; got %q", got)
	}
	bad := Atom{FacetData: map[FacetKind]json.RawMessage{FacetMeta: json.RawMessage(`[1]`)}}
	if got := bad.Title(); got != "" {
		t.Fatalf("expected empty title for malformed meta; got %q", got)
	}
}

func TestAtomWithTitle_KeepsOtherMetaAndCopies(t *testing.T) {
	a := Atom{
		ID:        "atom-1",
		Facets:    []FacetKind{FacetTask, FacetMeta},
		FacetData: map[FacetKind]json.RawMessage{FacetMeta: json.RawMessage(`{"title":"old","color":"red"}`)},
	}
	b := a.WithTitle("new")
	if b.Title() != "new" || a.Title() != "old" {
		t.Fatalf("expected copy with new title; got %q / %q", b.Title(), a.Title())
	}
	var meta map[string]string
	if err := json.Unmarshal(b.FacetData[FacetMeta], &meta); err != nil || meta["color"] != "red" {
		t.Fatalf("expected color kept; got %s", b.FacetData[FacetMeta])
	}
	if len(b.Facets) != 2 {
		t.Fatalf("expected facets unchanged; got %v", b.Facets)
	}

	c := Atom{ID: "atom-2"}.WithTitle("fresh")
	if !c.HasFacet(FacetMeta) || c.Title() != "fresh" {
		t.Fatalf("expected meta facet added; got %+v", c)
	}
}

func TestDeref(t *testing.T) {
	if Deref(nil) != "" || Deref(Ptr(" p-1 ")) != "p-1" {
		t.Fatalf("unexpected deref results")
	}
}

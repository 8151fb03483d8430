package model

import (
	"encoding/json"
	"strings"
)

type FacetKind string

const (
	FacetTask       FacetKind = "task"
	FacetEnergy     FacetKind = "energy"
	FacetRecurrence FacetKind = "recurrence"
	FacetAttention  FacetKind = "attention"
	FacetMeta       FacetKind = "meta"
	FacetBlocking   FacetKind = "blocking"
)

// Atom is a captured unit of content. The engine only reads it.
type Atom struct {
	ID        string                        `json:"id"`
	Facets    []FacetKind                   `json:"facets,omitempty"`
	FacetData map[FacetKind]json.RawMessage `json:"facetData,omitempty"`
	Revision  int64                         `json:"revision"`
}

func (a Atom) HasFacet(kind FacetKind) bool {
	for _, f := range a.Facets {
		if f == kind {
			return true
		}
	}
	return false
}

// Title returns the meta facet's title, if any.
func (a Atom) Title() string {
	raw, ok := a.FacetData[FacetMeta]
	if !ok || len(raw) == 0 {
		return ""
	}
	var meta struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ""
	}
	return strings.TrimSpace(meta.Title)
}

// WithTitle returns a copy of a whose meta facet carries title. Other meta fields are kept.
func (a Atom) WithTitle(title string) Atom {
	meta := map[string]any{}
	if raw, ok := a.FacetData[FacetMeta]; ok && len(raw) > 0 {
		_ = json.Unmarshal(raw, &meta)
		if meta == nil {
			meta = map[string]any{}
		}
	}
	meta["title"] = title
	b, err := json.Marshal(meta)
	if err != nil {
		return a
	}

	out := a
	out.FacetData = make(map[FacetKind]json.RawMessage, len(a.FacetData)+1)
	for k, v := range a.FacetData {
		out.FacetData[k] = v
	}
	out.FacetData[FacetMeta] = b
	if !a.HasFacet(FacetMeta) {
		out.Facets = append(append([]FacetKind(nil), a.Facets...), FacetMeta)
	}
	return out
}

// Block wraps an atom and holds its canonical, view-independent parent.
type Block struct {
	ID            string  `json:"id"`
	AtomID        string  `json:"atomId"`
	ParentBlockID *string `json:"parentBlockId,omitempty"`
	TaskStatus    string  `json:"taskStatus,omitempty"`
	Lifecycle     string  `json:"lifecycle,omitempty"`
}

// Placement is a view-scoped position of a block. Trees are built from placements.
type Placement struct {
	ID                string  `json:"id"`
	ViewID            string  `json:"viewId"`
	BlockID           string  `json:"blockId"`
	ParentPlacementID *string `json:"parentPlacementId,omitempty"`
	OrderKey          string  `json:"orderKey"`
	Pinned            bool    `json:"pinned"`
	Revision          int64   `json:"revision"`
}

type ConditionStatus string

const (
	ConditionActive    ConditionStatus = "active"
	ConditionResolved  ConditionStatus = "resolved"
	ConditionCancelled ConditionStatus = "cancelled"
)

type ConditionMode string

const (
	ConditionPerson ConditionMode = "person"
	ConditionTask   ConditionMode = "task"
	ConditionDate   ConditionMode = "date"
)

// Condition is a blocking signal attached to an atom.
type Condition struct {
	ID      string           `json:"id"`
	AtomID  string           `json:"atomId"`
	Status  ConditionStatus  `json:"status"`
	Mode    ConditionMode    `json:"mode"`
	Payload ConditionPayload `json:"payload"`
}

// ConditionPayload holds the mode-specific fields. Only the ones matching Mode are set.
type ConditionPayload struct {
	// person
	WaitingOnPerson    string `json:"waitingOnPerson,omitempty"`
	WaitingCadenceDays int    `json:"waitingCadenceDays,omitempty"`
	NextFollowupAt     string `json:"nextFollowupAt,omitempty"`

	// task
	BlockerAtomID string `json:"blockerAtomId,omitempty"`

	// date
	BlockedUntil string `json:"blockedUntil,omitempty"`
}

// Ptr returns a pointer to s, for optional id fields.
func Ptr(s string) *string { return &s }

// Deref returns the trimmed value of an optional id, or "" when unset.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

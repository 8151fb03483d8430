// Package snapshot loads and saves one view's records so the tree engine can run
// against them. Snapshots are plain JSON documents or SQLite fixture databases.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"outline-engine/internal/model"
	"outline-engine/internal/tree"
)

var ErrUnknownFormat = errors.New("unknown snapshot format")

// Snapshot is the record set of a single view. Collapsed lists collapsed placement ids.
type Snapshot struct {
	ViewID     string            `json:"viewId"`
	Placements []model.Placement `json:"placements"`
	Blocks     []model.Block     `json:"blocks"`
	Atoms      []model.Atom      `json:"atoms,omitempty"`
	Conditions []model.Condition `json:"conditions,omitempty"`
	Collapsed  []string          `json:"collapsed,omitempty"`
}

// Input indexes the snapshot for tree.Build. Placements from other views are left out
// when ViewID is set.
func (s Snapshot) Input() tree.Input {
	in := tree.Input{
		Blocks:     make(map[string]model.Block, len(s.Blocks)),
		Atoms:      make(map[string]model.Atom, len(s.Atoms)),
		Collapsed:  make(map[string]bool, len(s.Collapsed)),
		Conditions: map[string][]model.Condition{},
	}
	view := strings.TrimSpace(s.ViewID)
	for _, p := range s.Placements {
		if view != "" && p.ViewID != "" && p.ViewID != view {
			continue
		}
		in.Placements = append(in.Placements, p)
	}
	for _, b := range s.Blocks {
		in.Blocks[b.ID] = b
	}
	for _, a := range s.Atoms {
		in.Atoms[a.ID] = a
	}
	for _, id := range s.Collapsed {
		in.Collapsed[strings.TrimSpace(id)] = true
	}
	for _, c := range s.Conditions {
		in.Conditions[c.AtomID] = append(in.Conditions[c.AtomID], c)
	}
	return in
}

// WithRecords returns a copy of s with placements merged in by id (unknown ids are
// appended, placements of other views are kept) and blocks replaced. Blocks are written
// sorted by id so saved files diff cleanly.
func (s Snapshot) WithRecords(placements []model.Placement, blocks map[string]model.Block) Snapshot {
	out := s
	updated := make(map[string]model.Placement, len(placements))
	for _, p := range placements {
		updated[p.ID] = p
	}
	out.Placements = make([]model.Placement, 0, len(s.Placements)+len(placements))
	for _, p := range s.Placements {
		if u, ok := updated[p.ID]; ok {
			p = u
			delete(updated, p.ID)
		}
		out.Placements = append(out.Placements, p)
	}
	for _, p := range placements {
		if _, ok := updated[p.ID]; ok {
			out.Placements = append(out.Placements, p)
			delete(updated, p.ID)
		}
	}

	out.Blocks = make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, b)
	}
	sort.Slice(out.Blocks, func(i, j int) bool { return out.Blocks[i].ID < out.Blocks[j].ID })
	return out
}

// WithAtom returns a copy of s with a replaced by id, or appended when new.
func (s Snapshot) WithAtom(a model.Atom) Snapshot {
	out := s
	out.Atoms = make([]model.Atom, 0, len(s.Atoms)+1)
	found := false
	for _, cur := range s.Atoms {
		if cur.ID == a.ID {
			cur = a
			found = true
		}
		out.Atoms = append(out.Atoms, cur)
	}
	if !found {
		out.Atoms = append(out.Atoms, a)
	}
	return out
}

// WithoutPlacement returns a copy of s without the placement. Its block and atom go too
// once nothing else references them.
func (s Snapshot) WithoutPlacement(id string) Snapshot {
	out := s
	var blockID string
	out.Placements = make([]model.Placement, 0, len(s.Placements))
	for _, p := range s.Placements {
		if p.ID == id {
			blockID = p.BlockID
			continue
		}
		out.Placements = append(out.Placements, p)
	}
	if blockID == "" {
		return out
	}
	for _, p := range out.Placements {
		if p.BlockID == blockID {
			return out
		}
	}

	var atomID string
	out.Blocks = make([]model.Block, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		if b.ID == blockID {
			atomID = b.AtomID
			continue
		}
		out.Blocks = append(out.Blocks, b)
	}
	for _, b := range out.Blocks {
		if b.AtomID == atomID {
			return out
		}
	}
	out.Atoms = make([]model.Atom, 0, len(s.Atoms))
	for _, a := range s.Atoms {
		if a.ID != atomID {
			out.Atoms = append(out.Atoms, a)
		}
	}
	out.Conditions = make([]model.Condition, 0, len(s.Conditions))
	for _, c := range s.Conditions {
		if c.AtomID != atomID {
			out.Conditions = append(out.Conditions, c)
		}
	}
	return out
}

// SetCollapsed marks or clears a collapsed placement. The slice is reallocated so copies
// of s made earlier keep their state.
func (s *Snapshot) SetCollapsed(placementID string, collapsed bool) {
	next := make([]string, 0, len(s.Collapsed)+1)
	for _, id := range s.Collapsed {
		if id != placementID {
			next = append(next, id)
		}
	}
	if collapsed {
		next = append(next, placementID)
	}
	sort.Strings(next)
	s.Collapsed = next
}

func LoadJSON(r io.Reader) (Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func WriteJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

type kind int

const (
	kindJSON kind = iota
	kindSQLite
)

func kindOf(path string) (kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return kindJSON, nil
	case ".sqlite", ".sqlite3", ".db":
		return kindSQLite, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Load reads a snapshot, picking the format from the file extension. viewID overrides
// the view stored in the file when non-empty.
func Load(ctx context.Context, path, viewID string) (Snapshot, error) {
	k, err := kindOf(path)
	if err != nil {
		return Snapshot{}, err
	}
	if k == kindSQLite {
		return LoadSQLite(ctx, path, viewID)
	}
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	s, err := LoadJSON(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	if v := strings.TrimSpace(viewID); v != "" {
		s.ViewID = v
	}
	return s, nil
}

// Save writes s to path, picking the format from the file extension.
func Save(ctx context.Context, path string, s Snapshot) error {
	k, err := kindOf(path)
	if err != nil {
		return err
	}
	if k == kindSQLite {
		return SaveSQLite(ctx, path, s)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, s); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

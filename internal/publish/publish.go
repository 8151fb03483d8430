package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"outline-engine/internal/snapshot"
	"outline-engine/internal/tree"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteView writes <toDir>/<view>/index.md and one page per row under rows/.
// Collapse state is ignored.
func WriteView(snap snapshot.Snapshot, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	viewID := strings.TrimSpace(snap.ViewID)
	dirName := viewID
	if dirName == "" {
		dirName = "outline"
	}

	in := snap.Input()
	in.Collapsed = nil
	d := tree.Build(in)

	viewDir := filepath.Join(toDir, dirName)
	rowsDir := filepath.Join(viewDir, "rows")
	if err := os.MkdirAll(rowsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(viewDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderViewMarkdown(viewID, d)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first error.
	written := []string{indexPath}
	for _, row := range d.FlatRows {
		md, err := RenderRowMarkdown(d, row.PlacementID)
		if err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(rowsDir, row.PlacementID+".md")
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}

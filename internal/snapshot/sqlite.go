package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"outline-engine/internal/model"

	_ "modernc.org/sqlite"
)

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS placements (
			id TEXT PRIMARY KEY,
			view_id TEXT NOT NULL,
			block_id TEXT NOT NULL,
			parent_placement_id TEXT,
			order_key TEXT NOT NULL,
			pinned INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_placements_view ON placements(view_id);`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id TEXT PRIMARY KEY,
			atom_id TEXT NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS atoms (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS conditions (
			id TEXT PRIMARY KEY,
			atom_id TEXT NOT NULL,
			status TEXT NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conditions_atom ON conditions(atom_id);`,
		`CREATE TABLE IF NOT EXISTS ui_collapsed (
			view_id TEXT NOT NULL,
			placement_id TEXT NOT NULL,
			PRIMARY KEY (view_id, placement_id)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate snapshot db: %w", err)
		}
	}
	return nil
}

// LoadSQLite reads one view from a fixture database. An empty viewID uses the view
// recorded by SaveSQLite.
func LoadSQLite(ctx context.Context, path, viewID string) (Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return Snapshot{}, err
	}
	db, err := openSQLite(ctx, path)
	if err != nil {
		return Snapshot{}, err
	}
	defer db.Close()

	view := strings.TrimSpace(viewID)
	if view == "" {
		err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'view_id'`).Scan(&view)
		if err != nil && err != sql.ErrNoRows {
			return Snapshot{}, err
		}
	}
	s := Snapshot{ViewID: view}

	if err := scanJSON(ctx, db, `SELECT json FROM placements WHERE view_id = ? OR ? = '' ORDER BY id`, func(p model.Placement) {
		s.Placements = append(s.Placements, p)
	}, view, view); err != nil {
		return Snapshot{}, fmt.Errorf("placements: %w", err)
	}
	if err := scanJSON(ctx, db, `SELECT json FROM blocks ORDER BY id`, func(b model.Block) {
		s.Blocks = append(s.Blocks, b)
	}); err != nil {
		return Snapshot{}, fmt.Errorf("blocks: %w", err)
	}
	if err := scanJSON(ctx, db, `SELECT json FROM atoms ORDER BY id`, func(a model.Atom) {
		s.Atoms = append(s.Atoms, a)
	}); err != nil {
		return Snapshot{}, fmt.Errorf("atoms: %w", err)
	}
	if err := scanJSON(ctx, db, `SELECT json FROM conditions ORDER BY id`, func(c model.Condition) {
		s.Conditions = append(s.Conditions, c)
	}); err != nil {
		return Snapshot{}, fmt.Errorf("conditions: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT placement_id FROM ui_collapsed WHERE view_id = ? ORDER BY placement_id`, view)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return Snapshot{}, err
		}
		s.Collapsed = append(s.Collapsed, id)
	}
	return s, rows.Err()
}

func scanJSON[T any](ctx context.Context, db *sql.DB, query string, fn func(T), args ...any) error {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		fn(v)
	}
	return rows.Err()
}

// SaveSQLite writes s into the fixture. Placements and collapse state are replaced only
// for the views s covers, so other views in the file survive. Blocks, atoms and conditions
// are upserted; ones missing from s are removed unless another view still uses them.
func SaveSQLite(ctx context.Context, path string, s Snapshot) error {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	view := strings.TrimSpace(s.ViewID)
	if view == "" {
		// An unscoped snapshot carries every view.
		if _, err := tx.ExecContext(ctx, `DELETE FROM placements`); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES('view_id', ?)`, view); err != nil {
			return err
		}
		for _, v := range viewsOf(s) {
			if _, err := tx.ExecContext(ctx, `DELETE FROM placements WHERE view_id = ?`, v); err != nil {
				return err
			}
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ui_collapsed WHERE view_id = ?`, view); err != nil {
		return err
	}

	for _, p := range s.Placements {
		b, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pv := p.ViewID
		if pv == "" {
			pv = view
		}
		var parent any
		if p.ParentPlacementID != nil {
			parent = *p.ParentPlacementID
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO placements(id, view_id, block_id, parent_placement_id, order_key, pinned, json) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			p.ID, pv, p.BlockID, parent, p.OrderKey, boolToInt(p.Pinned), string(b),
		); err != nil {
			return err
		}
	}

	keepBlocks := map[string]bool{}
	for _, blk := range s.Blocks {
		keepBlocks[blk.ID] = true
		b, err := json.Marshal(blk)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO blocks(id, atom_id, json) VALUES(?, ?, ?)`, blk.ID, blk.AtomID, string(b)); err != nil {
			return err
		}
	}
	keepAtoms := map[string]bool{}
	for _, a := range s.Atoms {
		keepAtoms[a.ID] = true
		b, err := json.Marshal(a)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO atoms(id, json) VALUES(?, ?)`, a.ID, string(b)); err != nil {
			return err
		}
	}
	keepConds := map[string]bool{}
	for _, c := range s.Conditions {
		keepConds[c.ID] = true
		b, err := json.Marshal(c)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO conditions(id, atom_id, status, json) VALUES(?, ?, ?, ?)`, c.ID, c.AtomID, string(c.Status), string(b)); err != nil {
			return err
		}
	}

	// Order matters: a block freed above may free its atom, which frees its conditions.
	prune := []struct {
		table, stillUsed string
		keep             map[string]bool
	}{
		{"blocks", `SELECT 1 FROM placements WHERE block_id = ?`, keepBlocks},
		{"atoms", `SELECT 1 FROM blocks WHERE atom_id = ?`, keepAtoms},
		{"conditions", `SELECT 1 FROM atoms WHERE id = (SELECT atom_id FROM conditions WHERE id = ?)`, keepConds},
	}
	for _, pr := range prune {
		if err := pruneMissing(ctx, tx, pr.table, pr.stillUsed, pr.keep); err != nil {
			return fmt.Errorf("prune %s: %w", pr.table, err)
		}
	}

	for _, id := range s.Collapsed {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO ui_collapsed(view_id, placement_id) VALUES(?, ?)`, view, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// viewsOf lists s.ViewID and every view named by its placements.
func viewsOf(s Snapshot) []string {
	seen := map[string]bool{}
	var out []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	add(s.ViewID)
	for _, p := range s.Placements {
		add(p.ViewID)
	}
	return out
}

// pruneMissing deletes rows of table whose id is not in keep and for which stillUsed
// (taking the id) returns no row.
func pruneMissing(ctx context.Context, tx *sql.Tx, table, stillUsed string, keep map[string]bool) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM `+table)
	if err != nil {
		return err
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}
	for _, id := range stale {
		var one int
		err := tx.QueryRowContext(ctx, stillUsed, id).Scan(&one)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
				return err
			}
		case err != nil:
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

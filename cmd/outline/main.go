package main

import (
	"os"
	"path/filepath"
	"strings"

	"outline-engine/internal/cli"
)

func isSnapshotPath(s string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(s))) {
	case ".json", ".sqlite", ".sqlite3", ".db":
		return true
	}
	return false
}

// rewriteSnapshotArgs turns `outline <file>` into `outline browse --snapshot <file>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first, so we look for the first positional token.
func rewriteSnapshotArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":   true,
		"--snapshot": true,
		"--view":     true,
		"--format":   true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "browse", "--snapshot", argv[i])
		return append(out, argv[i+1:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isSnapshotPath(argv[i+1]) {
				out := rewrite(i + 1)
				// browse takes no positionals; drop the separator.
				return append(out[:i:i], out[i+1:]...)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isSnapshotPath(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteSnapshotArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package sqlitepath locates the SQLite memory database when none is configured.
package sqlitepath

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultFile is used in the working directory when no database exists yet.
const DefaultFile = "callmem.db"

// ResolveSQLitePath returns override when set, otherwise the first existing
// database among the known locations, otherwise DefaultFile.
func ResolveSQLitePath(override string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}

	for _, candidate := range sqliteCandidates() {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	return DefaultFile
}

func sqliteCandidates() []string {
	candidates := []string{
		DefaultFile,
		filepath.Join(".callmem", DefaultFile),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".callmem", DefaultFile))
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append(candidates, filepath.Join(xdgHome, "callmem", DefaultFile))
	}

	return candidates
}

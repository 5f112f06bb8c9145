package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/anime-shed/screenshot-differ/internal/errors"
)

// RunResolver picks the active run directory under a capture root. It
// is injectable so the comparison pipeline can be tested with explicit
// paths instead of a scanned filesystem.
type RunResolver func(root string) (string, error)

// LatestRun resolves the newest run directory under root. Run
// directories are timestamp-named by the capture tooling, so the
// lexicographically greatest subdirectory is the newest. Hidden
// directories and the diff output directory (outputRoot, which may
// live under root) are not runs.
func LatestRun(root, outputRoot string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", apperrors.NewConfigurationError(fmt.Sprintf("capture root %s not found", root), err)
	}

	outputName := outputDirName(root, outputRoot)

	var runs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || e.Name() == outputName {
			continue
		}
		runs = append(runs, e.Name())
	}
	if len(runs) == 0 {
		return "", apperrors.NewConfigurationError(fmt.Sprintf("no run directories under %s", root), nil)
	}

	sort.Strings(runs)
	return filepath.Join(root, runs[len(runs)-1]), nil
}

// outputDirName yields the first path element of outputRoot relative
// to root, or "" when the output directory lives elsewhere.
func outputDirName(root, outputRoot string) string {
	rel, err := filepath.Rel(root, outputRoot)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	for {
		dir := filepath.Dir(rel)
		if dir == "." {
			return rel
		}
		rel = dir
	}
}

// FixedRun returns a resolver that always yields the given directory
func FixedRun(dir string) RunResolver {
	return func(string) (string, error) {
		return dir, nil
	}
}

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/canonhq/canon/pkg/types"
)

// SeedTree writes the given relative-path → content map under root on the
// provided filesystem. It fails the test on any write error.
func SeedTree(t *testing.T, fsys types.FS, root string, files map[string]string) {
	t.Helper()

	if err := fsys.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create tree root %s: %v", root, err)
	}

	for rel, content := range files {
		WriteTreeFile(t, fsys, root, rel, content)
	}
}

// WriteTreeFile writes one file at root/rel, creating parents as needed.
func WriteTreeFile(t *testing.T, fsys types.FS, root, rel, content string) {
	t.Helper()

	path := filepath.Join(root, rel)
	if err := fsys.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
}

// ReadTreeFile reads root/rel and fails the test if it cannot be read.
func ReadTreeFile(t *testing.T, fsys types.FS, root, rel string) string {
	t.Helper()

	path := filepath.Join(root, rel)
	content, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// TreeFileExists checks whether root/rel exists and is not a directory.
func TreeFileExists(t *testing.T, fsys types.FS, root, rel string) bool {
	t.Helper()

	info, err := fsys.Stat(filepath.Join(root, rel))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// NewRelease builds a Release value for tests.
func NewRelease(version string, files map[string]string, composite ...string) *types.Release {
	rel := &types.Release{
		Version:   version,
		Files:     files,
		Composite: make(map[string]bool, len(composite)),
	}
	for _, p := range composite {
		rel.Composite[p] = true
	}
	return rel
}

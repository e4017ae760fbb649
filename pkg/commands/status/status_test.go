// pkg/commands/status/status_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (uses MemoryFS)
// PURPOSE: Verify drift states and drift counting in the status report

package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonhq/canon/pkg/commands/status"
	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/fingerprint"
	"github.com/canonhq/canon/pkg/ledger"
	"github.com/canonhq/canon/pkg/sections"
	"github.com/canonhq/canon/pkg/testutil"
	"github.com/canonhq/canon/pkg/types"
)

const treeRoot = "/project/.canon"

func seedTrackedTree(t *testing.T, fsys *testutil.MemoryFS) {
	t.Helper()

	files := map[string]string{
		"standards/review.md":  "# Review\n",
		"playbooks/release.md": "# Release\n",
		"config.yml":           "display:\n  format: auto\n",
		"memory/journal.md":    "operator notes\n",
	}
	testutil.SeedTree(t, fsys, treeRoot, files)

	led := ledger.New("1.0.0")
	for rel, content := range files {
		if rel == "memory/journal.md" {
			continue
		}
		led.Set(rel, fingerprint.Fingerprint(content))
	}
	require.NoError(t, ledger.Save(fsys, treeRoot+"/ledger", led))
}

func runStatus(fsys *testutil.MemoryFS, bundleDir string) (*types.TreeStatus, error) {
	return status.Status(status.Options{
		ProjectRoot: "/project",
		BundleDir:   bundleDir,
		FileSystem:  fsys,
	})
}

func statusOf(t *testing.T, st *types.TreeStatus, path string) types.PathStatus {
	t.Helper()
	for _, p := range st.Paths {
		if p.Path == path {
			return p
		}
	}
	t.Fatalf("path %s not in report", path)
	return types.PathStatus{}
}

func TestStatus(t *testing.T) {
	t.Run("requires_initialized_tree", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()

		_, err := runStatus(fsys, "")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTreeNotFound))
	})

	t.Run("clean_tree_has_no_drift", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedTrackedTree(t, fsys)

		st, err := runStatus(fsys, "")
		require.NoError(t, err)

		assert.Equal(t, "1.0.0", st.Version)
		assert.Equal(t, 0, st.DriftCount)
		assert.False(t, st.HasDrift())

		assert.Equal(t, types.StateClean, statusOf(t, st, "standards/review.md").State)
		assert.Equal(t, types.StateClean, statusOf(t, st, "config.yml").State)

		// Operator files are listed, never hashed, never drift.
		journal := statusOf(t, st, "memory/journal.md")
		assert.Equal(t, types.StateUntracked, journal.State)
		assert.Equal(t, types.OperatorOwned, journal.Class)
		assert.Equal(t, "operator-owned", journal.Detail)

		// The ledger is bookkeeping, not a reported path.
		for _, p := range st.Paths {
			assert.NotEqual(t, "ledger", p.Path)
		}
	})

	t.Run("modified_and_missing_paths_count_as_drift", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedTrackedTree(t, fsys)

		testutil.WriteTreeFile(t, fsys, treeRoot, "standards/review.md", "# Review\n\nEdited locally.\n")
		require.NoError(t, fsys.Remove(treeRoot+"/playbooks/release.md"))

		st, err := runStatus(fsys, "")
		require.NoError(t, err)

		assert.Equal(t, types.StateModified, statusOf(t, st, "standards/review.md").State)
		assert.Equal(t, types.StateMissing, statusOf(t, st, "playbooks/release.md").State)
		assert.Equal(t, 2, st.DriftCount)
		assert.True(t, st.HasDrift())
	})

	t.Run("untracked_files_are_listed_not_counted", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedTrackedTree(t, fsys)

		testutil.WriteTreeFile(t, fsys, treeRoot, "standards/extra.md", "stray\n")

		st, err := runStatus(fsys, "")
		require.NoError(t, err)

		assert.Equal(t, types.StateUntracked, statusOf(t, st, "standards/extra.md").State)
		assert.Equal(t, 0, st.DriftCount)
	})

	t.Run("stripped_markers_surface_as_legacy_with_bundle", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedTrackedTree(t, fsys)

		// The recorded fingerprint is of the marked document; the file on
		// disk had its markers stripped by hand.
		marked := sections.Serialize("1.0.0", "# Assistant\n", "my notes")
		testutil.WriteTreeFile(t, fsys, treeRoot, "agents/assistant.md", "# Assistant\n\nmy notes\n")

		led, err := ledger.Load(fsys, treeRoot+"/ledger")
		require.NoError(t, err)
		led.Set("agents/assistant.md", fingerprint.Fingerprint(marked))
		require.NoError(t, ledger.Save(fsys, treeRoot+"/ledger", led))

		manifest := "version: \"1.0.0\"\ncomposite:\n  - agents/assistant.md\n"
		require.NoError(t, fsys.WriteFile("/bundle/manifest.yml", []byte(manifest), 0o644))
		require.NoError(t, fsys.WriteFile("/bundle/payload/agents/assistant.md", []byte("# Assistant\n"), 0o644))

		st, err := runStatus(fsys, "/bundle")
		require.NoError(t, err)

		got := statusOf(t, st, "agents/assistant.md")
		assert.Equal(t, types.StateLegacy, got.State)
		assert.Equal(t, "section markers missing", got.Detail)
		assert.Equal(t, 1, st.DriftCount)

		// Without the bundle the same file still shows as drift, just
		// without the composite diagnosis.
		st, err = runStatus(fsys, "")
		require.NoError(t, err)
		assert.Equal(t, types.StateModified, statusOf(t, st, "agents/assistant.md").State)
	})

	t.Run("report_is_sorted_by_path", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedTrackedTree(t, fsys)

		st, err := runStatus(fsys, "")
		require.NoError(t, err)

		for i := 1; i < len(st.Paths); i++ {
			assert.Less(t, st.Paths[i-1].Path, st.Paths[i].Path)
		}
	})
}

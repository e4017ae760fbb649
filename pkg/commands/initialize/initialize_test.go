// pkg/commands/initialize/initialize_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (uses MemoryFS)
// PURPOSE: Verify first-install behavior of the initialize command

package initialize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonhq/canon/pkg/commands/initialize"
	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/ledger"
	"github.com/canonhq/canon/pkg/sections"
	"github.com/canonhq/canon/pkg/testutil"
	"github.com/canonhq/canon/pkg/types"
)

const treeRoot = "/project/.canon"

func seedBundle(t *testing.T, fsys *testutil.MemoryFS) {
	t.Helper()

	manifest := "version: \"1.0.0\"\ncomposite:\n  - agents/assistant.md\n"
	require.NoError(t, fsys.WriteFile("/bundle/manifest.yml", []byte(manifest), 0o644))
	require.NoError(t, fsys.WriteFile("/bundle/payload/standards/review.md", []byte("# Review\n"), 0o644))
	require.NoError(t, fsys.WriteFile("/bundle/payload/agents/assistant.md", []byte("# Assistant\n"), 0o644))
	require.NoError(t, fsys.WriteFile("/bundle/payload/config.yml", []byte("display:\n  format: auto\n"), 0o644))
	require.NoError(t, fsys.WriteFile("/bundle/payload/memory/seed.md", []byte("# Starter notes\n"), 0o644))
}

func runInit(fsys *testutil.MemoryFS, dryRun, force bool) (*initialize.Result, error) {
	return initialize.Initialize(initialize.Options{
		ProjectRoot: "/project",
		BundleDir:   "/bundle",
		FileSystem:  fsys,
		DryRun:      dryRun,
		Force:       force,
	})
}

func TestInitialize(t *testing.T) {
	t.Setenv("CANON_BACKUPS_DIR", "/backups")

	t.Run("fresh_install_writes_tree_and_ledger", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedBundle(t, fsys)

		res, err := runInit(fsys, false, false)
		require.NoError(t, err)
		require.NotNil(t, res.Plan)
		require.NotNil(t, res.Update)

		assert.Equal(t, types.StatusApplied, res.Update.Status)
		assert.Equal(t, "", res.Update.FromVersion)
		assert.Equal(t, "1.0.0", res.Update.ToVersion)

		assert.Equal(t, "# Review\n", testutil.ReadTreeFile(t, fsys, treeRoot, "standards/review.md"))
		assert.Equal(t,
			sections.Serialize("1.0.0", "# Assistant\n", ""),
			testutil.ReadTreeFile(t, fsys, treeRoot, "agents/assistant.md"))

		// Operator namespace payload is never installed.
		assert.False(t, testutil.TreeFileExists(t, fsys, treeRoot, "memory/seed.md"))
		assert.Contains(t, res.Update.Skipped, "memory/seed.md")

		led, err := ledger.Load(fsys, treeRoot+"/ledger")
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", led.Version)
		_, ok := led.Lookup("standards/review.md")
		assert.True(t, ok)
		_, ok = led.Lookup("memory/seed.md")
		assert.False(t, ok)
	})

	t.Run("dry_run_writes_nothing", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedBundle(t, fsys)

		res, err := runInit(fsys, true, false)
		require.NoError(t, err)

		assert.Equal(t, types.StatusDryRunReported, res.Update.Status)
		assert.True(t, res.Update.DryRun)
		assert.Empty(t, res.Update.SnapshotPath)

		_, err = fsys.Stat(treeRoot)
		assert.Error(t, err)
	})

	t.Run("second_init_rejected_without_force", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedBundle(t, fsys)

		_, err := runInit(fsys, false, false)
		require.NoError(t, err)

		res, err := runInit(fsys, false, false)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "already at version 1.0.0")
	})

	t.Run("forced_reinstall_over_existing_tree", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		seedBundle(t, fsys)

		_, err := runInit(fsys, false, false)
		require.NoError(t, err)

		res, err := runInit(fsys, false, true)
		require.NoError(t, err)

		assert.Equal(t, types.StatusApplied, res.Update.Status)
		assert.Equal(t, "1.0.0", res.Update.ToVersion)
		// Customizable file is already at the target content.
		assert.Contains(t, res.Update.Skipped, "config.yml")
		assert.Equal(t, "display:\n  format: auto\n", testutil.ReadTreeFile(t, fsys, treeRoot, "config.yml"))
	})

	t.Run("missing_bundle_is_reported", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()

		_, err := runInit(fsys, false, false)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrBundleNotFound))
	})
}

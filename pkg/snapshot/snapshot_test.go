// pkg/snapshot/snapshot_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (uses MemoryFS)
// PURPOSE: Verify snapshot creation, listing, pruning and restore semantics

package snapshot

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/ownership"
	"github.com/canonhq/canon/pkg/testutil"
)

const (
	treeRoot    = "/project/.canon"
	backupsRoot = "/state/canon/backups/project-abc12345"
)

// stubClock makes timeNow return base plus one minute per call.
func stubClock(t *testing.T, base time.Time) {
	t.Helper()
	orig := timeNow
	calls := 0
	timeNow = func() time.Time {
		now := base.Add(time.Duration(calls) * time.Minute)
		calls++
		return now
	}
	t.Cleanup(func() { timeNow = orig })
}

func seedTree(t *testing.T) *testutil.MemoryFS {
	t.Helper()
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.WriteFile(treeRoot+"/standards/review.md", []byte("standards"), 0o644))
	require.NoError(t, fsys.WriteFile(treeRoot+"/config.yml", []byte("config"), 0o644))
	require.NoError(t, fsys.WriteFile(treeRoot+"/ledger", []byte("1.0.0\n"), 0o644))
	require.NoError(t, fsys.WriteFile(treeRoot+"/memory/notes.md", []byte("operator notes"), 0o644))
	require.NoError(t, fsys.WriteFile(treeRoot+"/decisions/adr-001.md", []byte("operator decision"), 0o644))
	return fsys
}

func TestCreate(t *testing.T) {
	t.Run("copies_tree_excluding_operator_files", func(t *testing.T) {
		stubClock(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		fsys := seedTree(t)
		m := NewManager(fsys, treeRoot, backupsRoot)

		dest, err := m.Create(ownership.MustClassifier(), "1.1.0")
		require.NoError(t, err)
		assert.Equal(t, backupsRoot+"/1.1.0-20260301-100000", dest)

		data, err := fsys.ReadFile(dest + "/standards/review.md")
		require.NoError(t, err)
		assert.Equal(t, "standards", string(data))

		data, err = fsys.ReadFile(dest + "/config.yml")
		require.NoError(t, err)
		assert.Equal(t, "config", string(data))

		_, err = fsys.ReadFile(dest + "/memory/notes.md")
		assert.Error(t, err, "operator files must not be snapshotted")
		_, err = fsys.ReadFile(dest + "/decisions/adr-001.md")
		assert.Error(t, err, "operator files must not be snapshotted")
	})

	t.Run("unreadable_file_fails_and_removes_partial_snapshot", func(t *testing.T) {
		stubClock(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		fsys := seedTree(t)
		fsys.WithError(treeRoot+"/standards/review.md", stderrors.New("io error"))
		m := NewManager(fsys, treeRoot, backupsRoot)

		_, err := m.Create(ownership.MustClassifier(), "1.1.0")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSnapshotFailed))

		infos, err := m.List()
		require.NoError(t, err)
		assert.Empty(t, infos, "partial snapshot must be cleaned up")
	})

	t.Run("missing_tree_is_tree_not_found", func(t *testing.T) {
		fsys := testutil.NewMemoryFS()
		m := NewManager(fsys, treeRoot, backupsRoot)

		_, err := m.Create(ownership.MustClassifier(), "1.1.0")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTreeNotFound))
	})
}

func TestListAndLatest(t *testing.T) {
	stubClock(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	fsys := seedTree(t)
	m := NewManager(fsys, treeRoot, backupsRoot)

	_, err := m.Create(ownership.MustClassifier(), "1.0.0")
	require.NoError(t, err)
	_, err = m.Create(ownership.MustClassifier(), "1.1.0")
	require.NoError(t, err)
	_, err = m.Create(ownership.MustClassifier(), "2.0.0-rc1")
	require.NoError(t, err)

	// Unrelated directories under the backups root are ignored.
	require.NoError(t, fsys.MkdirAll(backupsRoot+"/junk", 0o755))

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, "2.0.0-rc1", infos[0].Version)
	assert.Equal(t, "1.1.0", infos[1].Version)
	assert.Equal(t, "1.0.0", infos[2].Version)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 2, 0, 0, time.UTC), infos[0].CreatedAt)
	assert.Equal(t, 3, infos[0].FileCount)

	latest, err := m.Latest()
	require.NoError(t, err)
	assert.Equal(t, "2.0.0-rc1", latest.Version)
}

func TestLatestWithoutSnapshots(t *testing.T) {
	fsys := seedTree(t)
	m := NewManager(fsys, treeRoot, backupsRoot)

	_, err := m.Latest()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoSnapshot))
}

func TestPrune(t *testing.T) {
	stubClock(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	fsys := seedTree(t)
	m := NewManager(fsys, treeRoot, backupsRoot)

	for _, version := range []string{"1.0.0", "1.1.0", "1.2.0", "1.3.0"} {
		_, err := m.Create(ownership.MustClassifier(), version)
		require.NoError(t, err)
	}

	pruned, err := m.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "1.3.0", infos[0].Version)
	assert.Equal(t, "1.2.0", infos[1].Version)

	pruned, err = m.Prune(10)
	require.NoError(t, err)
	assert.Equal(t, 0, pruned)
}

func TestRestore(t *testing.T) {
	t.Run("writes_snapshot_files_back_verbatim", func(t *testing.T) {
		stubClock(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		fsys := seedTree(t)
		m := NewManager(fsys, treeRoot, backupsRoot)

		dest, err := m.Create(ownership.MustClassifier(), "1.1.0")
		require.NoError(t, err)

		// Mutate the tree after the snapshot.
		require.NoError(t, fsys.WriteFile(treeRoot+"/standards/review.md", []byte("clobbered"), 0o644))
		require.NoError(t, fsys.WriteFile(treeRoot+"/standards/new-after.md", []byte("added later"), 0o644))
		require.NoError(t, fsys.WriteFile(treeRoot+"/memory/notes.md", []byte("newer operator notes"), 0o644))

		restored, err := m.Restore(dest)
		require.NoError(t, err)
		assert.Equal(t, 3, restored)

		data, err := fsys.ReadFile(treeRoot + "/standards/review.md")
		require.NoError(t, err)
		assert.Equal(t, "standards", string(data))

		// Files absent from the snapshot are left alone.
		data, err = fsys.ReadFile(treeRoot + "/standards/new-after.md")
		require.NoError(t, err)
		assert.Equal(t, "added later", string(data))

		data, err = fsys.ReadFile(treeRoot + "/memory/notes.md")
		require.NoError(t, err)
		assert.Equal(t, "newer operator notes", string(data))
	})

	t.Run("missing_snapshot_is_no_snapshot", func(t *testing.T) {
		fsys := seedTree(t)
		m := NewManager(fsys, treeRoot, backupsRoot)

		_, err := m.Restore(backupsRoot + "/1.0.0-20260101-000000")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNoSnapshot))
	})
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name        string
		dir         string
		wantVersion string
		wantOK      bool
	}{
		{"plain_version", "1.2.0-20260301-100000", "1.2.0", true},
		{"version_with_dash", "2.0.0-rc1-20260301-100000", "2.0.0-rc1", true},
		{"missing_stamp", "1.2.0", "", false},
		{"garbage_stamp", "1.2.0-2026research-bad", "", false},
		{"empty_version", "-20260301-100000", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, _, ok := parseName(tt.dir)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantVersion, version)
			}
		})
	}
}

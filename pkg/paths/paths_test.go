// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (uses t.TempDir)
// PURPOSE: Verify project root resolution, XDG overrides, and tree path layout

package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvProjectRoot, "")
	t.Setenv(EnvBackupsDir, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvConfigDir, "")
	t.Setenv(EnvCacheDir, "")
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		projectRoot string
		envSetup    map[string]string
		validate    func(t *testing.T, p Paths)
	}{
		{
			name:        "explicit_project_root",
			projectRoot: "/tmp/project",
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, "/tmp/project", p.ProjectRoot())
				assert.False(t, p.UsedFallback())
			},
		},
		{
			name: "root_from_env",
			envSetup: map[string]string{
				EnvProjectRoot: "/env/project",
			},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, "/env/project", p.ProjectRoot())
				assert.False(t, p.UsedFallback())
			},
		},
		{
			name: "discovered_or_fallback_root_is_absolute",
			validate: func(t *testing.T, p Paths) {
				// Either an ancestor with a managed tree is found or we
				// fall back to the working directory; both are absolute.
				assert.NotEmpty(t, p.ProjectRoot())
				assert.True(t, filepath.IsAbs(p.ProjectRoot()))
			},
		},
		{
			name:        "expand_tilde_in_explicit_root",
			projectRoot: "~/my-project",
			validate: func(t *testing.T, p Paths) {
				homeDir, _ := os.UserHomeDir()
				assert.Equal(t, filepath.Join(homeDir, "my-project"), p.ProjectRoot())
			},
		},
		{
			name: "custom_xdg_directories",
			envSetup: map[string]string{
				EnvDataDir:   "/custom/data",
				EnvConfigDir: "/custom/config",
				EnvCacheDir:  "/custom/cache",
			},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, "/custom/data", p.DataDir())
				assert.Equal(t, "/custom/config", p.ConfigDir())
				assert.Equal(t, "/custom/cache", p.CacheDir())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p, err := New(tt.projectRoot)
			require.NoError(t, err)
			require.NotNil(t, p)

			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestFindProjectRootWalksUpward(t *testing.T) {
	clearEnv(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, TreeDirName), 0o755))
	nested := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer func() { _ = os.Chdir(cwd) }()

	p, err := New("")
	require.NoError(t, err)
	assert.False(t, p.UsedFallback())

	// Temp dirs may sit behind symlinks (e.g. /var on darwin), so compare
	// the resolved paths.
	got, err := filepath.EvalSymlinks(p.ProjectRoot())
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTreeLayout(t *testing.T) {
	clearEnv(t)

	p, err := New("/test/project")
	require.NoError(t, err)

	assert.Equal(t, "/test/project/.canon", p.TreeRoot())
	assert.Equal(t, "/test/project/.canon/standards/review.md", p.TreePath("standards/review.md"))
	assert.Equal(t, "/test/project/.canon/ledger", p.LedgerPath())
	assert.Equal(t, "/test/project/.canon/config.yml", p.TreeConfigPath())
	assert.Equal(t, "/test/project/canon.toml", p.ProjectConfigPath())
}

func TestProjectKey(t *testing.T) {
	clearEnv(t)

	p1, err := New("/test/project")
	require.NoError(t, err)
	p2, err := New("/other/project")
	require.NoError(t, err)

	key1 := p1.ProjectKey()
	key2 := p2.ProjectKey()

	assert.True(t, strings.HasPrefix(key1, "project-"))
	assert.Len(t, key1, len("project-")+8)

	// Same basename, different checkout location: keys must differ.
	assert.NotEqual(t, key1, key2)

	// Stable across instances for the same root.
	p3, err := New("/test/project")
	require.NoError(t, err)
	assert.Equal(t, key1, p3.ProjectKey())
}

func TestBackupsRoot(t *testing.T) {
	t.Run("default_under_state_dir", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("XDG_STATE_HOME", "/state")

		p, err := New("/test/project")
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("/state", CanonDirName, BackupsDirName, p.ProjectKey()), p.BackupsRoot())
	})

	t.Run("env_override", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvBackupsDir, "/mnt/backups")

		p, err := New("/test/project")
		require.NoError(t, err)

		assert.Equal(t, "/mnt/backups", p.BackupsRoot())
	})
}

func TestLogFilePath(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_STATE_HOME", "/state")

	p, err := New("/test/project")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/state", CanonDirName, LogFileName), p.LogFilePath())
}

func TestIsInTree(t *testing.T) {
	clearEnv(t)

	p, err := New("/test/project")
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"file_in_tree", "/test/project/.canon/standards/review.md", true},
		{"tree_root_itself", "/test/project/.canon", true},
		{"project_file_outside_tree", "/test/project/main.go", false},
		{"unrelated_path", "/elsewhere/file.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.IsInTree(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	clearEnv(t)

	p, err := New("/test/project")
	require.NoError(t, err)

	t.Run("empty_path_errors", func(t *testing.T) {
		_, err := p.NormalizePath("")
		assert.Error(t, err)
	})

	t.Run("cleans_redundant_segments", func(t *testing.T) {
		got, err := p.NormalizePath("/a/b/../c/./d")
		require.NoError(t, err)
		assert.Equal(t, "/a/c/d", got)
	})

	t.Run("expands_tilde", func(t *testing.T) {
		homeDir, _ := os.UserHomeDir()
		got, err := p.NormalizePath("~/notes.md")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(homeDir, "notes.md"), got)
	})
}

func TestExpandHome(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"bare_tilde", "~", homeDir},
		{"tilde_slash", "~/x", filepath.Join(homeDir, "x")},
		{"tilde_user_untouched", "~other/x", "~other/x"},
		{"absolute_untouched", "/a/b", "/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.path))
		})
	}
}

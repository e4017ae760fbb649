// Package paths provides centralized path handling for canon.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/fingerprint"
)

// Environment variable names
const (
	// EnvProjectRoot is the primary environment variable for the project location
	EnvProjectRoot = "CANON_PROJECT_ROOT"

	// EnvBackupsDir overrides the snapshot storage location
	EnvBackupsDir = "CANON_BACKUPS_DIR"

	// EnvDataDir overrides the XDG data directory for canon
	EnvDataDir = "CANON_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for canon
	EnvConfigDir = "CANON_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for canon
	EnvCacheDir = "CANON_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define the managed tree structure and are
// NOT user-configurable. They must remain consistent across all canon
// installations so that releases, ledgers and snapshots line up.
const (
	// TreeDirName is the directory name of the managed tree inside a project
	TreeDirName = ".canon"

	// CanonDirName is the directory name for canon-specific XDG files
	CanonDirName = "canon"

	// LedgerFileName is the name of the version ledger inside the tree
	LedgerFileName = "ledger"

	// TreeConfigFileName is the operator-facing config file inside the tree
	TreeConfigFileName = "config.yml"

	// ProjectConfigFileName is the per-project descriptor at the project root
	ProjectConfigFileName = "canon.toml"

	// BackupsDirName is the subdirectory for pre-update snapshots
	BackupsDirName = "backups"

	// LogFileName is the name of the log file
	LogFileName = "canon.log"
)

// Paths provides centralized path management for canon
type Paths interface {
	ProjectRoot() string
	UsedFallback() bool
	ProjectKey() string
	TreeRoot() string
	TreePath(relPath string) string
	LedgerPath() string
	TreeConfigPath() string
	ProjectConfigPath() string
	DataDir() string
	ConfigDir() string
	CacheDir() string
	StateDir() string
	BackupsRoot() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
	IsInTree(path string) (bool, error)
}

// paths provides centralized path management for canon
type paths struct {
	// projectRoot is the directory that contains the managed tree
	projectRoot string

	// xdgData is the XDG data directory
	xdgData string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgCache is the XDG cache directory
	xdgCache string

	// xdgState is the XDG state directory
	xdgState string

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance with the given project root.
// If projectRoot is empty, it will be determined from environment variables
// or by walking upward from the current directory.
func New(projectRoot string) (Paths, error) {
	p := &paths{}

	if projectRoot == "" {
		root, usedFallback, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		p.projectRoot = root
		p.usedFallback = usedFallback
	} else {
		p.projectRoot = expandHome(projectRoot)
		p.usedFallback = false
	}

	// Ensure the project root is absolute
	absRoot, err := filepath.Abs(p.projectRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for project root")
	}
	p.projectRoot = absRoot

	if err := p.setupXDGDirs(); err != nil {
		return nil, err
	}

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() error {
	// Data directory
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, CanonDirName)
	}

	// Config directory
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, CanonDirName)
	}

	// Cache directory
	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, CanonDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, CanonDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", CanonDirName)
	}

	return nil
}

// findProjectRoot determines the project root using the following priority:
// 1. CANON_PROJECT_ROOT environment variable (if set)
// 2. The nearest ancestor of the working directory containing a .canon tree
// 3. Current working directory (fallback)
//
// The function returns:
// - string: The resolved project root path
// - bool: Whether the current working directory was used as fallback
// - error: Any error that occurred during resolution
//
// This lets canon work in three common scenarios:
// - Explicit configuration via CANON_PROJECT_ROOT
// - Automatic detection when run from anywhere inside a managed project
// - Fallback to the current directory for `canon init` and quick testing
func findProjectRoot() (string, bool, error) {
	// Check CANON_PROJECT_ROOT first (highest priority)
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return expandHome(root), false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	// Walk upward looking for a directory that contains the managed tree
	dir := cwd
	for {
		info, err := os.Stat(filepath.Join(dir, TreeDirName))
		if err == nil && info.IsDir() {
			return dir, false, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Fallback to the current working directory with warning
	return cwd, true, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// ProjectRoot returns the directory containing the managed tree
func (p *paths) ProjectRoot() string {
	return p.projectRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// ProjectKey returns a stable identifier for this project, used to keep
// snapshots from different projects apart under the shared state directory.
// The key combines the root's basename with a short digest of its absolute
// path, so two checkouts named "api" do not share snapshot history.
func (p *paths) ProjectKey() string {
	base := filepath.Base(p.projectRoot)
	if base == string(filepath.Separator) || base == "." {
		base = "root"
	}
	return base + "-" + fingerprint.Short(p.projectRoot)
}

// TreeRoot returns the managed tree directory inside the project
func (p *paths) TreeRoot() string {
	return filepath.Join(p.projectRoot, TreeDirName)
}

// TreePath returns the absolute path of a tree-relative file
func (p *paths) TreePath(relPath string) string {
	return filepath.Join(p.TreeRoot(), filepath.FromSlash(relPath))
}

// LedgerPath returns the path to the version ledger
func (p *paths) LedgerPath() string {
	return p.TreePath(LedgerFileName)
}

// TreeConfigPath returns the path to the operator config inside the tree
func (p *paths) TreeConfigPath() string {
	return p.TreePath(TreeConfigFileName)
}

// ProjectConfigPath returns the path to the project descriptor
func (p *paths) ProjectConfigPath() string {
	return filepath.Join(p.projectRoot, ProjectConfigFileName)
}

// DataDir returns the XDG data directory for canon
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for canon
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// CacheDir returns the XDG cache directory for canon
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// StateDir returns the XDG state directory for canon
func (p *paths) StateDir() string {
	return p.xdgState
}

// BackupsRoot returns the directory holding this project's snapshots.
// Respects CANON_BACKUPS_DIR if set; otherwise snapshots live under the
// state directory keyed by project.
func (p *paths) BackupsRoot() string {
	if dir := os.Getenv(EnvBackupsDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(p.xdgState, BackupsDirName, p.ProjectKey())
}

// LogFilePath returns the path to the canon log file
// Respects XDG_STATE_HOME if set
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := expandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// IsInTree checks if a path is within the managed tree
func (p *paths) IsInTree(path string) (bool, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(p.TreeRoot(), normalized)
	if err != nil {
		return false, nil
	}

	// If the relative path starts with .., it's outside the tree
	return !strings.HasPrefix(rel, ".."), nil
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

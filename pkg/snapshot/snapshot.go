// Package snapshot creates and restores pre-update copies of the managed
// tree.
//
// A snapshot is taken once per apply, before the first write lands. It
// copies every non-operator file into a directory keyed by the incoming
// release version and a UTC timestamp, so a later rollback can put the
// tree back exactly as it was. OperatorOwned paths never enter a
// snapshot; restoring one therefore cannot clobber operator data.
package snapshot

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/filesystem"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/ownership"
	"github.com/canonhq/canon/pkg/types"
)

// stampLayout is the timestamp portion of a snapshot directory name.
// Lexicographic order of the stamp matches chronological order.
const stampLayout = "20060102-150405"

// timeNow is stubbed in tests
var timeNow = time.Now

// Info describes one stored snapshot.
type Info struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	FileCount int       `json:"file_count"`
}

// Manager creates, lists, prunes and restores snapshots for one project.
type Manager struct {
	fs          types.FS
	treeRoot    string
	backupsRoot string
}

// NewManager returns a Manager operating on the given managed tree and
// backups root.
func NewManager(fsys types.FS, treeRoot, backupsRoot string) *Manager {
	return &Manager{
		fs:          fsys,
		treeRoot:    treeRoot,
		backupsRoot: backupsRoot,
	}
}

// Create copies the current managed tree into a new snapshot directory
// and returns its path. Files classified OperatorOwned are excluded. Any
// failure aborts the snapshot, removes the partial directory, and must
// abort the update that requested it.
func (m *Manager) Create(classifier *ownership.Classifier, version string) (string, error) {
	logger := logging.GetLogger("snapshot")

	rels, err := filesystem.ListFiles(m.fs, m.treeRoot)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, errors.ErrTreeNotFound, "managed tree not found at %s", m.treeRoot)
		}
		return "", errors.Wrapf(err, errors.ErrSnapshotFailed, "cannot enumerate managed tree")
	}

	name := version + "-" + timeNow().UTC().Format(stampLayout)
	dest := filepath.Join(m.backupsRoot, name)

	if err := m.fs.MkdirAll(dest, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrSnapshotFailed, "cannot create snapshot directory %s", dest)
	}

	copied := 0
	for _, rel := range rels {
		if classifier.Classify(rel) == types.OperatorOwned {
			continue
		}

		src := filepath.Join(m.treeRoot, filepath.FromSlash(rel))

		data, err := m.fs.ReadFile(src)
		if err != nil {
			_ = m.fs.RemoveAll(dest)
			return "", errors.Wrapf(err, errors.ErrSnapshotFailed, "cannot read %s", rel)
		}

		perm := fs.FileMode(0644)
		if info, err := m.fs.Stat(src); err == nil {
			perm = info.Mode().Perm()
		}

		target := filepath.Join(dest, filepath.FromSlash(rel))
		if err := filesystem.WriteFileAtomic(m.fs, target, data, perm); err != nil {
			_ = m.fs.RemoveAll(dest)
			return "", errors.Wrapf(err, errors.ErrSnapshotFailed, "cannot write %s", rel)
		}
		copied++
	}

	logger.Info().
		Str("snapshot", name).
		Int("files", copied).
		Msg("Snapshot created")

	return dest, nil
}

// List returns all snapshots under the backups root, newest first. A
// missing backups root means no snapshots, not an error.
func (m *Manager) List() ([]Info, error) {
	entries, err := m.fs.ReadDir(m.backupsRoot)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read backups directory %s", m.backupsRoot)
	}

	logger := logging.GetLogger("snapshot")

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		version, createdAt, ok := parseName(entry.Name())
		if !ok {
			logger.Debug().Str("dir", entry.Name()).Msg("Skipping non-snapshot directory")
			continue
		}

		path := filepath.Join(m.backupsRoot, entry.Name())
		files, err := filesystem.ListFiles(m.fs, path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read snapshot %s", entry.Name())
		}

		infos = append(infos, Info{
			Name:      entry.Name(),
			Path:      path,
			Version:   version,
			CreatedAt: createdAt,
			FileCount: len(files),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		return infos[i].Name > infos[j].Name
	})

	return infos, nil
}

// Latest returns the most recent snapshot, or ErrNoSnapshot when none
// exist.
func (m *Manager) Latest() (*Info, error) {
	infos, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, errors.New(errors.ErrNoSnapshot, "no snapshots available")
	}
	return &infos[0], nil
}

// Prune removes all but the newest keep snapshots and returns how many
// were deleted.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	infos, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(infos) <= keep {
		return 0, nil
	}

	logger := logging.GetLogger("snapshot")

	pruned := 0
	for _, info := range infos[keep:] {
		if err := m.fs.RemoveAll(info.Path); err != nil {
			return pruned, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove snapshot %s", info.Name)
		}
		logger.Debug().Str("snapshot", info.Name).Msg("Pruned snapshot")
		pruned++
	}

	return pruned, nil
}

// Restore writes every file of the snapshot at snapshotPath back into
// the managed tree, verbatim, and returns how many files were restored.
// Files created in the tree after the snapshot are left alone; since
// snapshots never contain OperatorOwned paths, neither are operator
// files.
func (m *Manager) Restore(snapshotPath string) (int, error) {
	logger := logging.GetLogger("snapshot")

	rels, err := filesystem.ListFiles(m.fs, snapshotPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return 0, errors.Wrapf(err, errors.ErrNoSnapshot, "snapshot not found at %s", snapshotPath)
		}
		return 0, errors.Wrapf(err, errors.ErrRestoreFailed, "cannot read snapshot %s", snapshotPath)
	}

	restored := 0
	for _, rel := range rels {
		src := filepath.Join(snapshotPath, filepath.FromSlash(rel))

		data, err := m.fs.ReadFile(src)
		if err != nil {
			return restored, errors.Wrapf(err, errors.ErrRestoreFailed, "cannot read %s", rel)
		}

		perm := fs.FileMode(0644)
		if info, err := m.fs.Stat(src); err == nil {
			perm = info.Mode().Perm()
		}

		target := filepath.Join(m.treeRoot, filepath.FromSlash(rel))
		if err := filesystem.WriteFileAtomic(m.fs, target, data, perm); err != nil {
			return restored, errors.Wrapf(err, errors.ErrRestoreFailed, "cannot restore %s", rel)
		}
		restored++
	}

	logger.Info().
		Str("snapshot", filepath.Base(snapshotPath)).
		Int("files", restored).
		Msg("Snapshot restored")

	return restored, nil
}

// parseName splits a snapshot directory name into its release version and
// timestamp. Versions may themselves contain dashes, so the stamp is read
// from the end of the name.
func parseName(name string) (string, time.Time, bool) {
	if len(name) < len(stampLayout)+2 {
		return "", time.Time{}, false
	}

	stampStart := len(name) - len(stampLayout)
	if name[stampStart-1] != '-' {
		return "", time.Time{}, false
	}

	createdAt, err := time.Parse(stampLayout, name[stampStart:])
	if err != nil {
		return "", time.Time{}, false
	}

	version := name[:stampStart-1]
	if version == "" {
		return "", time.Time{}, false
	}

	return version, createdAt, true
}

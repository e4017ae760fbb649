package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/types"
)

const (
	// TempFileSuffix is the suffix used for temporary atomic write files.
	TempFileSuffix = ".canon-tmp"
)

// WriteFileAtomic writes data through the FS abstraction by writing a
// sibling temp file and renaming it over the target. The rename is what
// keeps a crashed update from leaving a half-written ledger or managed
// file behind.
func WriteFileAtomic(fsys types.FS, filename string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(filename)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent directory for %s", filename)
	}

	tmp := filename + TempFileSuffix
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write temp file for %s", filename)
	}

	if err := fsys.Rename(tmp, filename); err != nil {
		// Clean up if we fail before rename lands
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot rename temp file onto %s", filename)
	}

	return nil
}

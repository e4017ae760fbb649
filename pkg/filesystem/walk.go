package filesystem

import (
	"path/filepath"
	"sort"

	"github.com/canonhq/canon/pkg/types"
)

// ListFiles returns the relative slash-separated paths of every regular
// file under root, sorted. Directories are traversed depth-first; the
// walk fails on the first unreadable directory.
func ListFiles(fsys types.FS, root string) ([]string, error) {
	var files []string

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			rel, err := filepath.Rel(root, full)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

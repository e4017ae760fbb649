// Package update orchestrates release application against a managed tree:
// a pure planning pass that decides a per-path outcome, an apply pass that
// snapshots the tree and materializes the outcomes in order, and rollback
// from the most recent snapshot.
//
// Plan is read-only and safe to call repeatedly. Apply is an exclusive
// writer; callers serialize updates against a given tree externally. The
// ledger is threaded through both as an explicit value: Plan consults it,
// Apply returns the rewritten one, and the command layer persists it.
package update

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/canonhq/canon/pkg/ownership"
	"github.com/canonhq/canon/pkg/snapshot"
	"github.com/canonhq/canon/pkg/types"
)

// initialVersionTag labels snapshots taken before any release was
// recorded in the ledger.
const initialVersionTag = "initial"

// timeNow is stubbed in tests
var timeNow = time.Now

// Engine plans and applies updates for one managed tree.
type Engine struct {
	fs         types.FS
	treeRoot   string
	classifier *ownership.Classifier
	snapshots  *snapshot.Manager
}

// NewEngine returns an Engine for the tree at treeRoot.
func NewEngine(fsys types.FS, treeRoot string, classifier *ownership.Classifier, snapshots *snapshot.Manager) *Engine {
	return &Engine{
		fs:         fsys,
		treeRoot:   treeRoot,
		classifier: classifier,
		snapshots:  snapshots,
	}
}

// readCurrent loads the installed content of one tree-relative path. An
// absent file is a normal state, reported via the bool.
func (e *Engine) readCurrent(relPath string) (string, bool, error) {
	data, err := e.fs.ReadFile(filepath.Join(e.treeRoot, filepath.FromSlash(relPath)))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

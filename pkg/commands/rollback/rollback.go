// Package rollback restores the managed tree from the most recent
// pre-update snapshot, or lists the snapshots available.
package rollback

import (
	"github.com/canonhq/canon/pkg/config"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/paths"
	"github.com/canonhq/canon/pkg/snapshot"
	"github.com/canonhq/canon/pkg/types"
	engine "github.com/canonhq/canon/pkg/update"
)

// Options defines the options for the Rollback command
type Options struct {
	// ProjectRoot is the project directory that holds the managed tree
	ProjectRoot string
	// FileSystem is the filesystem to operate on
	FileSystem types.FS
	// Config tunes ownership; nil means embedded defaults
	Config *config.Config
	// List reports available snapshots instead of restoring
	List bool
}

// Result carries either the restore outcome or the snapshot listing
type Result struct {
	Rollback  *types.RollbackResult `json:"rollback,omitempty"`
	Snapshots []snapshot.Info       `json:"snapshots,omitempty"`
}

// Rollback puts the tree back to its last pre-update state. It works even
// when the tree itself is damaged or gone; restoring recreates whatever
// the snapshot holds. The ledger file travels with the snapshot, so the
// recorded version moves back together with the content.
func Rollback(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.rollback")
	logger.Debug().
		Str("projectRoot", opts.ProjectRoot).
		Bool("list", opts.List).
		Msg("Starting rollback command")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	p, err := paths.New(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}
	fsys := opts.FileSystem

	snaps := snapshot.NewManager(fsys, p.TreeRoot(), p.BackupsRoot())

	if opts.List {
		infos, err := snaps.List()
		if err != nil {
			return nil, err
		}
		logger.Debug().Int("snapshots", len(infos)).Msg("Listed snapshots")
		return &Result{Snapshots: infos}, nil
	}

	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngine(fsys, p.TreeRoot(), classifier, snaps)
	res, err := eng.Rollback()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("version", res.RestoredVersion).
		Int("files", res.FilesRestored).
		Msg("Rollback command completed")

	return &Result{Rollback: res}, nil
}

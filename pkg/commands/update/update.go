// Package update applies a release bundle to an already-initialized tree:
// plan against the recorded ledger, apply, persist the new ledger, prune
// old snapshots.
package update

import (
	"github.com/canonhq/canon/pkg/bundle"
	"github.com/canonhq/canon/pkg/config"
	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/ledger"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/paths"
	"github.com/canonhq/canon/pkg/snapshot"
	"github.com/canonhq/canon/pkg/types"
	engine "github.com/canonhq/canon/pkg/update"
)

// Options defines the options for the Update command
type Options struct {
	// ProjectRoot is the project directory that holds the managed tree
	ProjectRoot string
	// BundleDir is the compiled release bundle to apply
	BundleDir string
	// FileSystem is the filesystem to operate on
	FileSystem types.FS
	// Config tunes retention and ownership; nil means embedded defaults
	Config *config.Config
	// DryRun previews the update without touching disk
	DryRun bool
}

// Result carries the plan and the apply outcome of an update
type Result struct {
	Plan   *types.UpdatePlan   `json:"plan"`
	Update *types.UpdateResult `json:"update,omitempty"`
}

// Update plans and applies a bundle against the managed tree. On a write
// failure mid-apply the result still comes back alongside the error so
// callers can show the residual paths; the on-disk ledger is left at its
// pre-update state for rollback.
func Update(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.update")
	logger.Debug().
		Str("projectRoot", opts.ProjectRoot).
		Str("bundleDir", opts.BundleDir).
		Bool("dryRun", opts.DryRun).
		Msg("Starting update command")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	p, err := paths.New(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}
	fsys := opts.FileSystem

	if _, err := fsys.Stat(p.TreeRoot()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTreeNotFound,
			"no managed tree at %s; run canon init first", p.TreeRoot())
	}

	release, err := bundle.Load(fsys, opts.BundleDir)
	if err != nil {
		return nil, err
	}

	led, err := ledger.Load(fsys, p.LedgerPath())
	if err != nil {
		return nil, err
	}

	classifier, err := cfg.Classifier(release.Customizable...)
	if err != nil {
		return nil, err
	}

	snaps := snapshot.NewManager(fsys, p.TreeRoot(), p.BackupsRoot())
	eng := engine.NewEngine(fsys, p.TreeRoot(), classifier, snaps)

	plan := eng.Plan(release, led)
	result, next, err := eng.Apply(plan, led, opts.DryRun)
	if err != nil {
		return &Result{Plan: plan, Update: result}, err
	}

	if !opts.DryRun {
		if err := ledger.Save(fsys, p.LedgerPath(), next); err != nil {
			return &Result{Plan: plan, Update: result}, err
		}
		if cfg.Snapshots.Retention > 0 {
			if pruned, err := snaps.Prune(cfg.Snapshots.Retention); err != nil {
				logger.Warn().Err(err).Msg("Snapshot pruning failed")
			} else if pruned > 0 {
				logger.Debug().Int("pruned", pruned).Msg("Pruned old snapshots")
			}
		}
	}

	logger.Info().
		Str("from", plan.FromVersion).
		Str("to", plan.ToVersion).
		Bool("dryRun", opts.DryRun).
		Int("conflicts", len(result.Conflicted)).
		Msg("Update command completed")

	return &Result{Plan: plan, Update: result}, nil
}

// Package initialize installs a release bundle into a project for the
// first time: it creates the managed tree, plans against an empty ledger,
// applies, and persists the resulting ledger.
package initialize

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

// Options defines the options for the Initialize command
type Options struct {
	// ProjectRoot is the project directory that holds the managed tree
	ProjectRoot string
	// BundleDir is the compiled release bundle to install
	BundleDir string
	// FileSystem is the filesystem to operate on
	FileSystem types.FS
	// Config tunes retention and ownership; nil means embedded defaults
	Config *config.Config
	// DryRun previews the install without touching disk
	DryRun bool
	// Force allows installing over a tree that already has a version
	Force bool
}

// Result carries the plan and the apply outcome of an install
type Result struct {
	Plan   *types.UpdatePlan   `json:"plan"`
	Update *types.UpdateResult `json:"update,omitempty"`
}

// Initialize performs the first install of a bundle. A tree that already
// records a version is refused unless Force is set; update is the right
// verb for that case.
func Initialize(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.initialize")
	logger.Debug().
		Str("projectRoot", opts.ProjectRoot).
		Str("bundleDir", opts.BundleDir).
		Bool("dryRun", opts.DryRun).
		Bool("force", opts.Force).
		Msg("Starting initialize command")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	p, err := paths.New(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}
	fsys := opts.FileSystem

	release, err := bundle.Load(fsys, opts.BundleDir)
	if err != nil {
		return nil, err
	}

	led, err := ledger.Load(fsys, p.LedgerPath())
	if err != nil {
		return nil, err
	}
	if led.Version != "" && !opts.Force {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"tree already at version %s; run canon update, or pass --force to reinstall", led.Version)
	}

	classifier, err := cfg.Classifier(release.Customizable...)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := fsys.MkdirAll(p.TreeRoot(), 0o755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate,
				"cannot create managed tree at %s", p.TreeRoot())
		}
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
		Str("version", release.Version).
		Bool("dryRun", opts.DryRun).
		Int("files", len(plan.Changes)).
		Msg("Initialize command completed")

	return &Result{Plan: plan, Update: result}, nil
}

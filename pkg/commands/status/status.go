// Package status reports drift: it classifies every file in the managed
// tree, compares fingerprints against the ledger, and flags modified,
// missing, untracked and legacy paths.
package status

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/canonhq/canon/pkg/bundle"
	"github.com/canonhq/canon/pkg/config"
	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/filesystem"
	"github.com/canonhq/canon/pkg/fingerprint"
	"github.com/canonhq/canon/pkg/ledger"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/paths"
	"github.com/canonhq/canon/pkg/sections"
	"github.com/canonhq/canon/pkg/types"
)

// Options defines the options for the Status command
type Options struct {
	// ProjectRoot is the project directory that holds the managed tree
	ProjectRoot string
	// BundleDir optionally points at the current release bundle. With it,
	// composite files that lost their section markers are reported as
	// legacy rather than plain modified.
	BundleDir string
	// FileSystem is the filesystem to operate on
	FileSystem types.FS
	// Config tunes ownership; nil means embedded defaults
	Config *config.Config
}

// Status scans the managed tree and builds the drift report. OperatorOwned
// paths are listed but never hashed and never counted as drift. The ledger
// file itself is bookkeeping, not content, and stays out of the report.
func Status(opts Options) (*types.TreeStatus, error) {
	logger := logging.GetLogger("commands.status")
	logger.Debug().
		Str("projectRoot", opts.ProjectRoot).
		Str("bundleDir", opts.BundleDir).
		Msg("Starting status command")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	p, err := paths.New(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}
	fsys := opts.FileSystem

	led, err := ledger.Load(fsys, p.LedgerPath())
	if err != nil {
		return nil, err
	}

	rels, err := filesystem.ListFiles(fsys, p.TreeRoot())
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrTreeNotFound,
				"no managed tree at %s; run canon init first", p.TreeRoot())
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot walk managed tree")
	}

	var release *types.Release
	if opts.BundleDir != "" {
		release, err = bundle.Load(fsys, opts.BundleDir)
		if err != nil {
			return nil, err
		}
	}

	var extras []string
	if release != nil {
		extras = release.Customizable
	}
	classifier, err := cfg.Classifier(extras...)
	if err != nil {
		return nil, err
	}

	var hashable []string
	for _, rel := range rels {
		if rel == paths.LedgerFileName {
			continue
		}
		if classifier.Classify(rel) != types.OperatorOwned {
			hashable = append(hashable, rel)
		}
	}

	hashes, err := fingerprint.ScanTree(fsys, p.TreeRoot(), hashable)
	if err != nil {
		return nil, err
	}

	var statuses []types.PathStatus
	onDisk := make(map[string]bool, len(rels))

	for _, rel := range rels {
		if rel == paths.LedgerFileName {
			continue
		}
		onDisk[rel] = true
		class := classifier.Classify(rel)

		if class == types.OperatorOwned {
			statuses = append(statuses, types.PathStatus{
				Path:   rel,
				Class:  class,
				State:  types.StateUntracked,
				Detail: "operator-owned",
			})
			continue
		}

		state := types.StateUntracked
		if recorded, ok := led.Lookup(rel); ok {
			if hashes[rel] == recorded {
				state = types.StateClean
			} else {
				state = types.StateModified
			}
		}

		detail := ""
		if release != nil && release.IsComposite(rel) && state != types.StateClean {
			content, err := fsys.ReadFile(filepath.Join(p.TreeRoot(), filepath.FromSlash(rel)))
			if err == nil && sections.Parse(string(content)).Legacy {
				state = types.StateLegacy
				detail = "section markers missing"
			}
		}

		statuses = append(statuses, types.PathStatus{
			Path:   rel,
			Class:  class,
			State:  state,
			Detail: detail,
		})
	}

	for path := range led.Entries {
		if onDisk[path] || path == paths.LedgerFileName {
			continue
		}
		statuses = append(statuses, types.PathStatus{
			Path:  path,
			Class: classifier.Classify(path),
			State: types.StateMissing,
		})
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Path < statuses[j].Path })

	drift := 0
	for _, s := range statuses {
		switch s.State {
		case types.StateModified, types.StateMissing, types.StateLegacy:
			drift++
		}
	}

	logger.Info().
		Str("version", led.Version).
		Int("paths", len(statuses)).
		Int("drift", drift).
		Msg("Status command completed")

	return &types.TreeStatus{
		Version:    led.Version,
		Paths:      statuses,
		DriftCount: drift,
	}, nil
}

package update

import (
	"path/filepath"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/filesystem"
	"github.com/canonhq/canon/pkg/fingerprint"
	"github.com/canonhq/canon/pkg/ledger"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/types"
)

// Apply materializes a plan.
//
// With dryRun set it only reports: no snapshot, no writes, and the ledger
// comes back untouched. A real run snapshots the tree once (when the plan
// has writes at all), executes each outcome in path order, and returns
// the rewritten ledger for the caller to persist: written files get fresh
// fingerprints, skipped files keep their prior entry, conflicted files
// lose theirs so the next run re-evaluates them.
//
// A failed write halts the run immediately. The returned result then
// carries StatusPartiallyFailed, the exact residual path list and the
// preserved snapshot path, alongside a non-nil error; the ledger returned
// is the original one. Recovery is Rollback followed by retry.
func (e *Engine) Apply(plan *types.UpdatePlan, led *ledger.Ledger, dryRun bool) (*types.UpdateResult, *ledger.Ledger, error) {
	logger := logging.GetLogger("update")

	result := &types.UpdateResult{
		Status:      types.StatusPlanned,
		FromVersion: plan.FromVersion,
		ToVersion:   plan.ToVersion,
		Warnings:    plan.Warnings,
		DryRun:      dryRun,
		Timestamp:   timeNow().UTC(),
	}

	if dryRun {
		for _, change := range plan.Changes {
			record(result, change.Path, change.Outcome.Action)
		}
		result.Status = types.StatusDryRunReported
		logger.Debug().Str("to", plan.ToVersion).Msg("Dry run reported")
		return result, led, nil
	}

	if plan.HasWrites() {
		tag := plan.FromVersion
		if tag == "" {
			tag = initialVersionTag
		}
		snapshotPath, err := e.snapshots.Create(e.classifier, tag)
		if err != nil {
			// Fail closed: nothing has been written yet.
			return nil, led, err
		}
		result.SnapshotPath = snapshotPath
	}

	result.Status = types.StatusApplying

	next := led.Clone()
	next.Version = plan.ToVersion

	for i, change := range plan.Changes {
		outcome := change.Outcome

		if !outcome.WritesFile() {
			record(result, change.Path, outcome.Action)
			continue
		}

		target := filepath.Join(e.treeRoot, filepath.FromSlash(change.Path))
		if err := filesystem.WriteFileAtomic(e.fs, target, []byte(outcome.Content), 0644); err != nil {
			result.Status = types.StatusPartiallyFailed
			result.ResidualPaths = residualPaths(plan.Changes[i:])
			logger.Error().
				Str("path", change.Path).
				Int("residual", len(result.ResidualPaths)).
				Err(err).
				Msg("Write failed mid-apply; halting")
			return result, led, errors.Wrapf(err, errors.ErrUpdateFailed, "write failed at %s", change.Path)
		}

		record(result, change.Path, outcome.Action)

		switch outcome.Action {
		case types.ActionReplace, types.ActionMerge:
			next.Set(change.Path, fingerprint.Fingerprint(outcome.Content))
		case types.ActionConflict:
			next.Delete(change.Path)
		}

		logger.Trace().
			Str("path", change.Path).
			Str("action", string(outcome.Action)).
			Msg("Outcome materialized")
	}

	result.Status = types.StatusApplied
	logger.Info().
		Str("from", plan.FromVersion).
		Str("to", plan.ToVersion).
		Int("updated", len(result.Updated)).
		Int("merged", len(result.Merged)).
		Int("skipped", len(result.Skipped)).
		Int("conflicted", len(result.Conflicted)).
		Msg("Update applied")

	return result, next, nil
}

// record files one path under the result list matching its action.
func record(result *types.UpdateResult, path string, action types.MergeAction) {
	switch action {
	case types.ActionReplace:
		result.Updated = append(result.Updated, path)
	case types.ActionMerge:
		result.Merged = append(result.Merged, path)
	case types.ActionConflict:
		result.Conflicted = append(result.Conflicted, path)
	default:
		result.Skipped = append(result.Skipped, path)
	}
}

// residualPaths lists the writes in changes that never happened.
func residualPaths(changes []types.PlannedChange) []string {
	var paths []string
	for _, change := range changes {
		if change.Outcome.WritesFile() {
			paths = append(paths, change.Path)
		}
	}
	return paths
}

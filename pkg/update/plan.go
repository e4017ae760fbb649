package update

import (
	"github.com/canonhq/canon/pkg/ledger"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/merge"
	"github.com/canonhq/canon/pkg/sections"
	"github.com/canonhq/canon/pkg/types"
)

// Plan evaluates a release against the installed tree and the ledger
// without touching disk. Every release output path is classified and
// resolved in sorted order. Composite paths get their incoming content
// re-derived first: the freshly compiled managed region is serialized
// together with whatever preserved region the installed file holds.
//
// Paths that exist but cannot be read are excluded from the plan and
// reported as warnings; planning never fails.
func (e *Engine) Plan(release *types.Release, led *ledger.Ledger) *types.UpdatePlan {
	logger := logging.GetLogger("update")

	plan := &types.UpdatePlan{
		FromVersion: led.Version,
		ToVersion:   release.Version,
	}

	for _, path := range release.Paths() {
		class := e.classifier.Classify(path)
		incoming := release.Files[path]

		current, exists, err := e.readCurrent(path)
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("Excluding unreadable path from plan")
			plan.Warnings = append(plan.Warnings, types.PlanWarning{Path: path, Message: err.Error()})
			continue
		}

		if release.IsComposite(path) {
			preserved := ""
			if exists {
				preserved = sections.Parse(current).Preserved
			}
			incoming = sections.Serialize(release.Version, incoming, preserved)
		}

		var outcome types.MergeOutcome
		if !exists && class != types.OperatorOwned {
			// Nothing on disk to protect; install outright.
			outcome = types.MergeOutcome{Action: types.ActionReplace, Content: incoming}
		} else {
			recordedHash, hasBaseline := led.Lookup(path)
			outcome = merge.Resolve(class, recordedHash, hasBaseline, current, incoming)
		}

		plan.Changes = append(plan.Changes, types.PlannedChange{
			Path:    path,
			Class:   class,
			Outcome: outcome,
		})

		logger.Trace().
			Str("path", path).
			Str("class", string(class)).
			Str("action", string(outcome.Action)).
			Msg("Path planned")
	}

	counts := plan.CountByAction()
	logger.Debug().
		Str("from", plan.FromVersion).
		Str("to", plan.ToVersion).
		Int("replace", counts[types.ActionReplace]).
		Int("merge", counts[types.ActionMerge]).
		Int("skip", counts[types.ActionSkip]).
		Int("conflict", counts[types.ActionConflict]).
		Int("warnings", len(plan.Warnings)).
		Msg("Plan computed")

	return plan
}

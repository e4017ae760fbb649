// Package merge decides, for a single managed path, what an update does:
// Replace, Skip, Merge, or Conflict. The decision depends on the path's
// ownership class, the fingerprint recorded at last write, and the current
// and incoming content. Resolve is pure; materializing the outcome is the
// orchestrator's job.
package merge

import (
	"strings"

	"github.com/canonhq/canon/pkg/fingerprint"
	"github.com/canonhq/canon/pkg/types"
)

// Conflict markers. Fixed literals; "yours" credits the content found on
// disk, "incoming" the release content.
const (
	ConflictYoursMarker    = "<<<<<<< yours"
	ConflictSeparator      = "======="
	ConflictIncomingMarker = ">>>>>>> incoming"
)

// openingBlockLines is how many leading lines the extension heuristic
// compares before trusting a line-count-increasing rewrite.
const openingBlockLines = 3

// Resolve computes the outcome for one path.
//
// recordedHash is the ledger baseline; hasBaseline is false when the
// ledger has no entry for the path, which is a normal state (first
// install, or a previous conflict) and never an error.
func Resolve(class types.OwnershipClass, recordedHash string, hasBaseline bool, current, incoming string) types.MergeOutcome {
	switch class {
	case types.OperatorOwned:
		// Never touched by an update, whatever the content looks like.
		return types.MergeOutcome{Action: types.ActionSkip}

	case types.DistributorOnly, types.RegeneratedOutput:
		return types.MergeOutcome{Action: types.ActionReplace, Content: incoming}
	}

	// OperatorCustomizable: drift detection via fingerprints.
	currentHash := fingerprint.Fingerprint(current)

	if currentHash == fingerprint.Fingerprint(incoming) {
		// Already at the target state, whatever the ledger says. Keeps
		// repeat runs quiet and covers first-install idempotence.
		return types.MergeOutcome{Action: types.ActionSkip}
	}

	if hasBaseline && recordedHash == currentHash {
		// Untouched since we last wrote it.
		return types.MergeOutcome{Action: types.ActionReplace, Content: incoming}
	}

	if hasBaseline && isConservativeExtension(current, incoming) {
		return types.MergeOutcome{Action: types.ActionMerge, Content: incoming}
	}

	// Either the operator diverged in a way the heuristic will not touch,
	// or there is no baseline proving where the content came from. Embed
	// both versions; the conflict file is written, never dropped.
	return types.MergeOutcome{Action: types.ActionConflict, Content: ConflictBody(current, incoming)}
}

// isConservativeExtension reports whether incoming looks like current with
// lines added: strictly more lines, an identical short opening block, and
// every current line still present in order. When in doubt the answer
// is no.
func isConservativeExtension(current, incoming string) bool {
	curLines := strings.Split(current, "\n")
	incLines := strings.Split(incoming, "\n")

	if len(incLines) <= len(curLines) {
		return false
	}

	opening := openingBlockLines
	if len(curLines) < opening {
		opening = len(curLines)
	}
	for i := 0; i < opening; i++ {
		if curLines[i] != incLines[i] {
			return false
		}
	}

	return isSubsequence(curLines, incLines)
}

// isSubsequence reports whether every line of sub appears in full, in
// order (not necessarily adjacent).
func isSubsequence(sub, full []string) bool {
	j := 0
	for _, line := range full {
		if j == len(sub) {
			break
		}
		if line == sub[j] {
			j++
		}
	}
	return j == len(sub)
}

// ConflictBody renders both competing versions between the conflict
// markers, current first and verbatim.
func ConflictBody(current, incoming string) string {
	var b strings.Builder

	b.WriteString(ConflictYoursMarker)
	b.WriteString("\n")
	writeBlock(&b, current)
	b.WriteString(ConflictSeparator)
	b.WriteString("\n")
	writeBlock(&b, incoming)
	b.WriteString(ConflictIncomingMarker)
	b.WriteString("\n")

	return b.String()
}

func writeBlock(b *strings.Builder, content string) {
	if content == "" {
		return
	}
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
}

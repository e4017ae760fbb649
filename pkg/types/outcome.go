package types

// MergeAction is the decision the merge resolver reaches for one path
type MergeAction string

const (
	// ActionReplace writes the new content over the current file
	ActionReplace MergeAction = "replace"

	// ActionSkip leaves the current file untouched
	ActionSkip MergeAction = "skip"

	// ActionMerge writes new content that was reconciled with the current
	// file (the conservative extension heuristic)
	ActionMerge MergeAction = "merge"

	// ActionConflict writes a file containing both competing versions
	// between conflict markers
	ActionConflict MergeAction = "conflict"
)

// MergeOutcome is the resolver's verdict for a single path. Content is
// meaningful for every action except ActionSkip.
type MergeOutcome struct {
	Action  MergeAction `json:"action"`
	Content string      `json:"-"`
}

// WritesFile reports whether materializing this outcome touches disk.
// Conflicts are written too, so the competing versions are never lost.
func (o MergeOutcome) WritesFile() bool {
	return o.Action != ActionSkip
}

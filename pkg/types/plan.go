package types

// PlannedChange pairs one managed path with the outcome the resolver chose
// for it. Plans are ordered by path.
type PlannedChange struct {
	Path    string         `json:"path"`
	Class   OwnershipClass `json:"class"`
	Outcome MergeOutcome   `json:"outcome"`
}

// PlanWarning records a path that was dropped from the plan, typically
// because it could not be read. Warnings never abort planning.
type PlanWarning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// UpdatePlan is the side-effect-free description of what an update would
// do. The same plan backs both the dry-run preview and real execution, so
// the preview always matches what executes.
type UpdatePlan struct {
	// FromVersion is the release recorded in the ledger before the update
	// (empty on first install).
	FromVersion string `json:"fromVersion"`

	// ToVersion is the release being applied.
	ToVersion string `json:"toVersion"`

	Changes  []PlannedChange `json:"changes"`
	Warnings []PlanWarning   `json:"warnings,omitempty"`
}

// CountByAction tallies planned changes per merge action.
func (p *UpdatePlan) CountByAction() map[MergeAction]int {
	counts := make(map[MergeAction]int, 4)
	for _, c := range p.Changes {
		counts[c.Outcome.Action]++
	}
	return counts
}

// HasWrites reports whether applying this plan would touch any file.
func (p *UpdatePlan) HasWrites() bool {
	for _, c := range p.Changes {
		if c.Outcome.WritesFile() {
			return true
		}
	}
	return false
}

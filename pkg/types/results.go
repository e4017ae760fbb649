package types

import "time"

// UpdateStatus tracks the orchestrator's progress through an update
type UpdateStatus string

const (
	// StatusIdle means no plan has been produced yet
	StatusIdle UpdateStatus = "idle"

	// StatusPlanned means a plan exists but nothing was written
	StatusPlanned UpdateStatus = "planned"

	// StatusDryRunReported means the plan was reported without touching disk
	StatusDryRunReported UpdateStatus = "dry_run_reported"

	// StatusApplying means writes are in progress
	StatusApplying UpdateStatus = "applying"

	// StatusApplied means every planned change was materialized and the
	// ledger was rewritten
	StatusApplied UpdateStatus = "applied"

	// StatusPartiallyFailed means a write failed mid-apply; the snapshot is
	// preserved and ResidualPaths lists what was never written
	StatusPartiallyFailed UpdateStatus = "partially_failed"
)

// UpdateResult is the structured outcome of an update run, consumed by the
// reporting layer and emitted verbatim in JSON output.
type UpdateResult struct {
	Status      UpdateStatus `json:"status"`
	FromVersion string       `json:"fromVersion"`
	ToVersion   string       `json:"toVersion"`

	Updated    []string `json:"updated"`
	Merged     []string `json:"merged"`
	Skipped    []string `json:"skipped"`
	Conflicted []string `json:"conflicted"`

	// ResidualPaths lists planned writes that never happened because a
	// write failure halted the run. Empty unless Status is
	// StatusPartiallyFailed.
	ResidualPaths []string `json:"residualPaths,omitempty"`

	Warnings []PlanWarning `json:"warnings,omitempty"`

	// SnapshotPath is the backup taken before the first write; empty in
	// dry-run and when the plan had no writes.
	SnapshotPath string `json:"snapshotPath,omitempty"`

	DryRun    bool      `json:"dryRun"`
	Timestamp time.Time `json:"timestamp"`
}

// RollbackResult reports a completed restore from the most recent snapshot.
type RollbackResult struct {
	// RestoredVersion is the release identifier the snapshot was tagged
	// with, i.e. the version the tree is back on.
	RestoredVersion string    `json:"restoredVersion"`
	SnapshotPath    string    `json:"snapshotPath"`
	FilesRestored   int       `json:"filesRestored"`
	Timestamp       time.Time `json:"timestamp"`
}

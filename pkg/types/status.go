package types

// PathState classifies one managed path's drift state for reporting
type PathState string

const (
	// StateClean means the file matches its recorded fingerprint
	StateClean PathState = "clean"

	// StateModified means the file differs from its recorded fingerprint
	StateModified PathState = "modified"

	// StateMissing means the ledger records the path but no file exists
	StateMissing PathState = "missing"

	// StateUntracked means the file exists without a ledger entry
	StateUntracked PathState = "untracked"

	// StateLegacy means a composite file carries no section markers, so its
	// operator notes cannot be separated from managed content
	StateLegacy PathState = "legacy"
)

// PathStatus is the drift report line for a single path
type PathStatus struct {
	Path   string         `json:"path"`
	Class  OwnershipClass `json:"class"`
	State  PathState      `json:"state"`
	Detail string         `json:"detail,omitempty"`
}

// TreeStatus is the full drift report for a managed tree. DriftCount
// counts modified, missing and legacy paths; untracked and operator files
// are listed but never counted as drift.
type TreeStatus struct {
	Version    string       `json:"version"`
	Paths      []PathStatus `json:"paths"`
	DriftCount int          `json:"driftCount"`
}

// HasDrift reports whether any path needs operator attention
func (s *TreeStatus) HasDrift() bool {
	return s.DriftCount > 0
}

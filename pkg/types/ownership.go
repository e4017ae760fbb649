package types

// OwnershipClass describes who may modify a managed path and under which
// update policy. Every path in the managed tree resolves to exactly one
// class; there is no "unknown".
type OwnershipClass string

const (
	// DistributorOnly marks infrastructure the distributor fully controls.
	// Always safe to overwrite.
	DistributorOnly OwnershipClass = "distributor_only"

	// RegeneratedOutput marks files fully derived from compiled content.
	// Always recomputed, never diffed.
	RegeneratedOutput OwnershipClass = "regenerated_output"

	// OperatorOwned marks operator data (knowledge logs, recorded
	// decisions). Never touched by an update.
	OperatorOwned OwnershipClass = "operator_owned"

	// OperatorCustomizable marks files that mix distributor defaults with
	// local edits and therefore require drift detection.
	OperatorCustomizable OwnershipClass = "operator_customizable"
)

// Package types defines the core types and interfaces used throughout canon.
// This includes the OwnershipClass and MergeAction enums, the Release bundle
// model, and the UpdatePlan/UpdateResult structures exchanged between the
// orchestrator, the command layer, and the reporting layer.
package types

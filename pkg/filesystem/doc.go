// Package filesystem provides filesystem implementations for canon.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem, plus the atomic-write helper
// every managed-file and ledger write goes through.
package filesystem

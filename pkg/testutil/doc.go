// Package testutil provides test helpers for canon: an in-memory
// implementation of types.FS with error injection, plus fixture builders
// for managed trees and release bundles.
package testutil

// Package txn implements the Session type of spec.md §4.4: the per-handle
// two-phase-commit participant that owns a root overlay, resolves a branch
// against the object store, and serializes its commit against concurrent
// sessions via an advisory file lock.
package txn

// Package store is the ObjectStore adapter (C1) and blob stream layer (C2).
// It is a narrow, purely mechanical conduit onto the git plumbing commands:
// every plumbing method spawns a git (or patch) child process with the
// object store directory as its working directory and surfaces a nonzero
// exit as *core.Error{Kind: core.KindStoreFailed}, except where a method
// documents otherwise: RevListOne reports a missing ref as ErrRefMissing,
// MergeBase reports unrelated history as ErrNoMergeBase, and MergeTree and
// RunPatch ignore the exit status. No method here
// interprets git's output beyond the byte-level framing documented in
// spec.md §4.1 — semantic decisions belong to the overlay, txn, and merge
// packages built on top of it.
package store

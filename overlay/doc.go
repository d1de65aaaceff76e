// Package overlay implements the in-memory, copy-on-write tree that a
// transaction mutates before it is serialized back into the object store
// (spec.md §4.3). A TreeOverlay lazily materializes its children from
// store.LsTree on first access and tracks dirtiness so Save only rewrites
// the subtrees that actually changed.
package overlay

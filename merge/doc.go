// Package merge implements the three-way merge engine of spec.md §4.5: it
// reads a git merge-tree stream as a sequence of change records and applies
// the remote side's deltas into an in-memory overlay tree, shelling out to
// `patch` for textual three-way file merges. Local changes are already
// present in the overlay and are never touched here.
package merge

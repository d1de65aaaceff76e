package overlay

import (
	"github.com/nickyhof/acidfs/core"
)

// EntryKind discriminates the two tree-entry shapes a name can be bound to.
type EntryKind int

const (
	KindTree EntryKind = iota
	KindBlob
)

// Node is any of the three things an Entry can be resident as: a directory
// (*TreeOverlay), a readable blob (*Blob), or an in-progress write (*NewBlob).
type Node interface {
	node()
}

// Entry is the (kind, oid_opt, resident_opt) triple of spec.md §3. OID is
// the zero OID when the entry exists only in memory and has never been
// saved. Resident is nil until something materializes or creates it.
type Entry struct {
	Kind     EntryKind
	OID      core.OID
	Resident Node
}

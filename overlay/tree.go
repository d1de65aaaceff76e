package overlay

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/store"
)

var errBadName = errors.New("acidfs: entry name is empty or contains '/'")
var errBadEncoding = errors.New("acidfs: entry name does not validate under the configured path encoding")

// TreeOverlay is a directory node of the in-memory overlay tree (spec.md
// §3/§4.3). The root overlay has no parent; every other overlay has
// exactly one parent and a name unique within it.
type TreeOverlay struct {
	store    *store.Store
	encoding core.PathEncoding
	parent   *TreeOverlay
	name     string

	entries      map[string]Entry
	dirty        bool
	committedOID core.OID
}

func (*TreeOverlay) node() {}

// NewRoot returns an empty root overlay — used when the branch has never
// been written (prev_commit == nil).
func NewRoot(s *store.Store, encoding core.PathEncoding) *TreeOverlay {
	return &TreeOverlay{store: s, encoding: encoding, entries: map[string]Entry{}}
}

// LoadRoot returns a root overlay populated by a one-level ls-tree read of
// treeOID, the session's lazy-materialization entry point.
func LoadRoot(s *store.Store, treeOID core.OID, encoding core.PathEncoding) (*TreeOverlay, error) {
	entries, err := entriesFromStore(s, treeOID)
	if err != nil {
		return nil, err
	}
	return &TreeOverlay{store: s, encoding: encoding, entries: entries, committedOID: treeOID}, nil
}

func entriesFromStore(s *store.Store, treeOID core.OID) (map[string]Entry, error) {
	raw, err := s.LsTree(treeOID)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]Entry, len(raw))
	for _, r := range raw {
		kind := KindBlob
		if r.Kind == store.KindTree {
			kind = KindTree
		}
		entries[r.Name] = Entry{Kind: kind, OID: r.OID}
	}
	return entries, nil
}

// Dirty reports whether this node's mapping has diverged from committed_oid.
func (t *TreeOverlay) Dirty() bool {
	return t.dirty
}

// CommittedOID returns the oid this overlay had when last read or saved,
// or the zero OID if it has never been saved.
func (t *TreeOverlay) CommittedOID() core.OID {
	return t.committedOID
}

// Name is this overlay's name within its parent, or "" for the root.
func (t *TreeOverlay) Name() string {
	return t.name
}

// Empty reports whether the entry mapping is empty.
func (t *TreeOverlay) Empty() bool {
	return len(t.entries) == 0
}

// Names returns the current entry names in no particular order.
func (t *TreeOverlay) Names() []string {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	return names
}

// Get looks up name, materializing a lazy tree/blob entry on first access,
// and returns the resident node (nil if name is absent).
func (t *TreeOverlay) Get(name string) (Node, error) {
	e, ok := t.entries[name]
	if !ok {
		return nil, nil
	}
	if e.Resident != nil {
		return e.Resident, nil
	}

	switch e.Kind {
	case KindTree:
		childEntries, err := entriesFromStore(t.store, e.OID)
		if err != nil {
			return nil, err
		}
		child := &TreeOverlay{
			store: t.store, encoding: t.encoding, parent: t, name: name,
			entries: childEntries, committedOID: e.OID,
		}
		e.Resident = child
		t.entries[name] = e
		return child, nil
	default:
		b := &Blob{store: t.store, oid: e.OID}
		e.Resident = b
		t.entries[name] = e
		return b, nil
	}
}

// Find walks components from this node, returning the terminal node or nil
// if any intermediate component is absent. A terminal Blob with remaining
// path components also yields nil ("not a directory").
func (t *TreeOverlay) Find(components []string) (Node, error) {
	var cur Node = t
	for _, c := range components {
		dir, ok := cur.(*TreeOverlay)
		if !ok {
			return nil, nil
		}
		next, err := dir.Get(c)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

// NewTree inserts an empty overlay under name and marks this node dirty.
func (t *TreeOverlay) NewTree(name string) (*TreeOverlay, error) {
	if err := t.validateName(name); err != nil {
		return nil, err
	}
	// The child has never been saved, so it starts dirty: Save must write it
	// out (as an empty tree) rather than reuse its zero committed oid.
	child := &TreeOverlay{store: t.store, encoding: t.encoding, parent: t, name: name, entries: map[string]Entry{}, dirty: true}
	t.entries[name] = Entry{Kind: KindTree, Resident: child}
	t.markDirty()
	return child, nil
}

// NewBlobWriter inserts an in-progress write handle under name, optionally
// carrying the blob it is replacing (for append semantics), and marks this
// node dirty.
func (t *TreeOverlay) NewBlobWriter(name string, prev *Blob) (*NewBlob, error) {
	if err := t.validateName(name); err != nil {
		return nil, err
	}
	w, err := t.store.HashObjectStdin()
	if err != nil {
		return nil, err
	}
	nb := &NewBlob{w: w, parent: t, name: name, prev: prev}
	t.entries[name] = Entry{Kind: KindBlob, Resident: nb}
	t.markDirty()
	return nb, nil
}

// Remove deletes name from the mapping and marks this node dirty, returning
// the removed entry (ok=false if it was absent) so callers can rebind it
// elsewhere (mv).
func (t *TreeOverlay) Remove(name string) (Entry, bool) {
	e, ok := t.entries[name]
	if !ok {
		return Entry{}, false
	}
	delete(t.entries, name)
	t.markDirty()
	return e, true
}

// Set installs an arbitrary entry under name (used by mv and the merge
// engine) and marks this node dirty.
func (t *TreeOverlay) Set(name string, e Entry) error {
	if err := t.validateName(name); err != nil {
		return err
	}
	t.entries[name] = e
	t.markDirty()
	return nil
}

// markDirty walks up the parent chain, stopping at the first ancestor that
// is already dirty.
func (t *TreeOverlay) markDirty() {
	for n := t; n != nil && !n.dirty; n = n.parent {
		n.dirty = true
	}
}

// Save recursively serializes this subtree: every dirty child is saved
// first and its entry rewritten with the new oid, an open NewBlob is a
// hard error, and the resulting entries are handed to mktree. A clean node
// returns its committed_oid without doing any work.
func (t *TreeOverlay) Save() (core.OID, error) {
	if !t.dirty {
		return t.committedOID, nil
	}

	entries := make([]store.RawEntry, 0, len(t.entries))
	for name, e := range t.entries {
		switch e.Kind {
		case KindTree:
			oid := e.OID
			if child, ok := e.Resident.(*TreeOverlay); ok {
				childOID, err := child.Save()
				if err != nil {
					return core.ZeroOID, err
				}
				oid = childOID
				e.OID = oid
				t.entries[name] = e
			}
			entries = append(entries, store.RawEntry{Name: name, Kind: store.KindTree, OID: oid})
		case KindBlob:
			if _, open := e.Resident.(*NewBlob); open {
				return core.ZeroOID, core.NewError(core.KindOpenFileAtCommit, "save", t.childPath(name), nil)
			}
			entries = append(entries, store.RawEntry{Name: name, Kind: store.KindBlob, OID: e.OID})
		}
	}

	newOID, err := t.store.MkTree(entries)
	if err != nil {
		return core.ZeroOID, err
	}
	t.dirty = false
	t.committedOID = newOID
	return newOID, nil
}

// path returns this node's slash-joined path from the root.
func (t *TreeOverlay) path() string {
	var parts []string
	for n := t; n != nil && n.parent != nil; n = n.parent {
		parts = append([]string{n.name}, parts...)
	}
	return "/" + strings.Join(parts, "/")
}

func (t *TreeOverlay) childPath(name string) string {
	if t.parent == nil {
		return "/" + name
	}
	return t.path() + "/" + name
}

func (t *TreeOverlay) validateName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return core.NewError(core.KindBadMode, "name", name, errBadName)
	}
	if t.encoding == core.EncodingUTF8 {
		if !utf8.ValidString(name) {
			return core.NewError(core.KindBadMode, "name", name, errBadEncoding)
		}
		return nil
	}
	for i := 0; i < len(name); i++ {
		if name[i] > 0x7f {
			return core.NewError(core.KindBadMode, "name", name, errBadEncoding)
		}
	}
	return nil
}

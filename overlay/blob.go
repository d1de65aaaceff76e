package overlay

import (
	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/store"
)

// Blob is the immutable (oid, object_store) pair of spec.md §3. It is
// opened for reading by spawning a fresh cat-file pipe per Open call.
type Blob struct {
	store *store.Store
	oid   core.OID
}

func (*Blob) node() {}

// OID returns the blob's committed object id.
func (b *Blob) OID() core.OID {
	return b.oid
}

// Open spawns a new reader over the blob's bytes. Readers are finite and
// non-restartable; call Open again for a second pass.
func (b *Blob) Open() (*store.BlobReader, error) {
	return b.store.CatFileBlob(b.oid)
}

// NewBlob is the write-only handle of spec.md §3/§4.2: an in-progress
// object-hashing pipe bound to a name in parent, not yet installed. While
// one is open, the enclosing transaction cannot vote (*core.KindOpenFileAtCommit).
type NewBlob struct {
	w      *store.BlobWriter
	parent *TreeOverlay
	name   string
	prev   *Blob
	closed bool
}

func (*NewBlob) node() {}

// Prev returns the blob this writer is replacing (nil for a fresh create),
// used by the façade to seed append-mode writers with the prior bytes.
func (w *NewBlob) Prev() *Blob {
	return w.prev
}

// Write pushes bytes to the underlying hashing pipe.
func (w *NewBlob) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Close finishes hashing, then installs the resulting (blob, oid, nil)
// entry into the parent overlay under name — per spec.md §4.2 the newly
// bound entry is left unmaterialized, not wired back to this handle or a
// *Blob. Closing twice is a no-op.
func (w *NewBlob) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.w.Close(); err != nil {
		return err
	}
	w.parent.entries[w.name] = Entry{Kind: KindBlob, OID: w.w.OID()}
	return nil
}

package overlay

import (
	"io"
	"testing"

	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	if err := store.Init(dir, true); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store.New(dir)
}

func writeBlob(t *testing.T, root *TreeOverlay, name, content string) {
	t.Helper()
	w, err := root.NewBlobWriter(name, nil)
	if err != nil {
		t.Fatalf("NewBlobWriter failed: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func readBlob(t *testing.T, b *Blob) string {
	t.Helper()
	r, err := b.Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	return string(data)
}

func TestNewBlobWriterMarksDirtyAndInstalls(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)

	writeBlob(t, root, "foo", "Hello\n")
	if !root.Dirty() {
		t.Fatal("root should be dirty after a write")
	}

	node, err := root.Get("foo")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	b, ok := node.(*Blob)
	if !ok {
		t.Fatalf("expected *Blob, got %T", node)
	}
	if got := readBlob(t, b); got != "Hello\n" {
		t.Errorf("got %q, want %q", got, "Hello\n")
	}
}

func TestSaveClearsDirtyAndIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)
	writeBlob(t, root, "foo", "Hello\n")

	oid, err := root.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if oid.IsZero() {
		t.Fatal("Save should produce a non-zero tree oid")
	}
	if root.Dirty() {
		t.Fatal("root should be clean after Save")
	}
	if root.CommittedOID() != oid {
		t.Errorf("CommittedOID = %s, want %s", root.CommittedOID(), oid)
	}

	// A clean Save is a no-op that returns the same committed oid.
	again, err := root.Save()
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if again != oid {
		t.Errorf("second Save = %s, want %s", again, oid)
	}
}

func TestSaveFailsWithOpenWriter(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)

	if _, err := root.NewBlobWriter("foo", nil); err != nil {
		t.Fatalf("NewBlobWriter failed: %v", err)
	}

	_, err := root.Save()
	kind, ok := core.KindOf(err)
	if !ok || kind != core.KindOpenFileAtCommit {
		t.Fatalf("Save with an open writer = (%v, %v), want KindOpenFileAtCommit", kind, ok)
	}
}

func TestNestedTreeDirtyPropagation(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)

	sub, err := root.NewTree("dir")
	if err != nil {
		t.Fatalf("NewTree failed: %v", err)
	}
	if !root.Dirty() {
		t.Fatal("root should be dirty after NewTree")
	}

	if _, err := root.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if root.Dirty() || sub.Dirty() {
		t.Fatal("both root and sub should be clean after Save")
	}

	writeBlob(t, sub, "leaf", "content")
	if !sub.Dirty() || !root.Dirty() {
		t.Fatal("writing into sub should mark both sub and root dirty")
	}

	rootOID, err := root.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if rootOID.IsZero() {
		t.Fatal("expected a non-zero root tree oid")
	}

	node, err := root.Find([]string{"dir", "leaf"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	b, ok := node.(*Blob)
	if !ok {
		t.Fatalf("expected *Blob, got %T", node)
	}
	if got := readBlob(t, b); got != "content" {
		t.Errorf("got %q, want %q", got, "content")
	}
}

func TestFindThroughBlobReturnsNil(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)
	writeBlob(t, root, "foo", "data")

	node, err := root.Find([]string{"foo", "bar"})
	if err != nil {
		t.Fatalf("Find returned an error: %v", err)
	}
	if node != nil {
		t.Fatalf("Find through a blob should return nil, got %T", node)
	}
}

func TestRemoveAndSet(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)
	writeBlob(t, root, "foo", "data")

	entry, ok := root.Remove("foo")
	if !ok {
		t.Fatal("Remove should report the entry existed")
	}
	if entry.Kind != KindBlob {
		t.Errorf("removed entry Kind = %v, want KindBlob", entry.Kind)
	}
	if node, _ := root.Get("foo"); node != nil {
		t.Fatal("foo should be gone after Remove")
	}

	if err := root.Set("bar", entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	node, err := root.Get("bar")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, ok := node.(*Blob); !ok {
		t.Fatalf("expected *Blob under bar, got %T", node)
	}
}

func TestLoadRootMaterializesLazily(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)
	writeBlob(t, root, "foo", "Hello\n")
	sub, err := root.NewTree("dir")
	if err != nil {
		t.Fatalf("NewTree failed: %v", err)
	}
	writeBlob(t, sub, "leaf", "nested")

	treeOID, err := root.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadRoot(s, treeOID, core.EncodingASCII)
	if err != nil {
		t.Fatalf("LoadRoot failed: %v", err)
	}
	if loaded.Dirty() {
		t.Fatal("a freshly loaded root should be clean")
	}
	if loaded.CommittedOID() != treeOID {
		t.Errorf("CommittedOID = %s, want %s", loaded.CommittedOID(), treeOID)
	}

	node, err := loaded.Find([]string{"dir", "leaf"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	b, ok := node.(*Blob)
	if !ok {
		t.Fatalf("expected *Blob, got %T", node)
	}
	if got := readBlob(t, b); got != "nested" {
		t.Errorf("got %q, want %q", got, "nested")
	}
}

func TestValidateNameRejectsSlashAndEmpty(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)

	if _, err := root.NewTree(""); err == nil {
		t.Error("empty name should be rejected")
	}
	if _, err := root.NewTree("a/b"); err == nil {
		t.Error("name containing '/' should be rejected")
	}
}

func TestValidateNameASCIIEncoding(t *testing.T) {
	s := newTestStore(t)
	root := NewRoot(s, core.EncodingASCII)

	if _, err := root.NewTree("caf\xc3\xa9"); err == nil {
		t.Error("non-ASCII name should be rejected under EncodingASCII")
	}

	utf8Root := NewRoot(s, core.EncodingUTF8)
	if _, err := utf8Root.NewTree("café"); err != nil {
		t.Errorf("UTF-8 name should be accepted under EncodingUTF8: %v", err)
	}
}

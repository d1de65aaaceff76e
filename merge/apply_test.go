package merge

import (
	"fmt"
	"io"
	"testing"

	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/overlay"
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

func writeBlob(t *testing.T, root *overlay.TreeOverlay, name, content string) core.OID {
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
	node, err := root.Get(name)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return node.(*overlay.Blob).OID()
}

func readBlobAt(t *testing.T, root *overlay.TreeOverlay, path ...string) string {
	t.Helper()
	node, err := root.Find(path)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	blob, ok := node.(*overlay.Blob)
	if !ok {
		t.Fatalf("expected *Blob at %v, got %T", path, node)
	}
	r, err := blob.Open()
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

func TestApplyAddedInRemote(t *testing.T) {
	s := newTestStore(t)
	root := overlay.NewRoot(s, core.EncodingASCII)

	remoteOID := writeBlob(t, overlay.NewRoot(s, core.EncodingASCII), "unused", "remote content")
	stream := []byte(fmt.Sprintf("added in remote\ntheir 100644 %s\tbar.txt\n", remoteOID))

	if err := Apply(root, stream); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := readBlobAt(t, root, "bar.txt"); got != "remote content" {
		t.Errorf("got %q, want %q", got, "remote content")
	}
}

func TestApplyRemovedInRemote(t *testing.T) {
	s := newTestStore(t)
	root := overlay.NewRoot(s, core.EncodingASCII)
	oid := writeBlob(t, root, "foo.txt", "gone soon")
	if _, err := root.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stream := []byte(fmt.Sprintf(
		"removed in remote\nour 100644 %s\tfoo.txt\nbase 100644 %s\tfoo.txt\n", oid, oid))

	if err := Apply(root, stream); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if node, _ := root.Get("foo.txt"); node != nil {
		t.Fatal("foo.txt should have been removed")
	}
}

func TestApplyAddedInBothSameOIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	root := overlay.NewRoot(s, core.EncodingASCII)
	oid := writeBlob(t, root, "foo.txt", "same content")

	stream := []byte(fmt.Sprintf(
		"added in both\nour 100644 %s\tfoo.txt\ntheir 100644 %s\tfoo.txt\n", oid, oid))

	if err := Apply(root, stream); err != nil {
		t.Fatalf("Apply should not fail when both sides agree: %v", err)
	}
}

func TestApplyAddedInBothDifferentOIDConflicts(t *testing.T) {
	s := newTestStore(t)
	root := overlay.NewRoot(s, core.EncodingASCII)
	ourOID := writeBlob(t, root, "foo.txt", "ours")
	theirOID := writeBlob(t, overlay.NewRoot(s, core.EncodingASCII), "other", "theirs")

	stream := []byte(fmt.Sprintf(
		"added in both\nour 100644 %s\tfoo.txt\ntheir 100644 %s\tfoo.txt\n", ourOID, theirOID))

	err := Apply(root, stream)
	kind, ok := core.KindOf(err)
	if !ok || kind != core.KindConflict {
		t.Fatalf("Apply = (%v, %v), want KindConflict", kind, ok)
	}
}

func TestApplyUnknownHeaderConflicts(t *testing.T) {
	s := newTestStore(t)
	root := overlay.NewRoot(s, core.EncodingASCII)

	err := Apply(root, []byte("something unexpected\n"))
	kind, ok := core.KindOf(err)
	if !ok || kind != core.KindConflict {
		t.Fatalf("Apply = (%v, %v), want KindConflict", kind, ok)
	}
}

func TestApplyChangedInBothAppliesPatch(t *testing.T) {
	s := newTestStore(t)
	root := overlay.NewRoot(s, core.EncodingASCII)

	baseContent := "line1\nline2\nline3\nline4\nline5\n"
	baseOID := writeBlob(t, overlay.NewRoot(s, core.EncodingASCII), "unused-base", baseContent)

	// root currently holds the "our" version, unchanged from base.
	ourOID := writeBlob(t, root, "foo.txt", baseContent)
	if _, err := root.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	theirContent := "line1\nCHANGED\nline3\nline4\nline5\n"
	theirOID := writeBlob(t, overlay.NewRoot(s, core.EncodingASCII), "unused-their", theirContent)

	diff := "@@ -1,3 +1,3 @@\n line1\n-line2\n+CHANGED\n line3\n"
	stream := []byte(fmt.Sprintf(
		"changed in both\nbase 100644 %s\tfoo.txt\nour 100644 %s\tfoo.txt\ntheir 100644 %s\tfoo.txt\n%s",
		baseOID, ourOID, theirOID, diff))

	if err := Apply(root, stream); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := readBlobAt(t, root, "foo.txt"); got != theirContent {
		t.Errorf("got %q, want %q", got, theirContent)
	}
}

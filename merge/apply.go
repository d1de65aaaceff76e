package merge

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/overlay"
	"github.com/nickyhof/acidfs/store"
)

// Apply reads a git merge-tree stream and applies every remote-side delta
// it describes into root. Local changes already present in the overlay are
// left untouched; any record this package cannot reconcile conservatively
// raises *core.Error{Kind: KindConflict} rather than guessing (spec.md
// §4.5).
func Apply(root *overlay.TreeOverlay, stream []byte) error {
	sc := newLineScanner(stream)
	for {
		raw, ok := sc.next()
		if !ok {
			return nil
		}
		if len(raw) == 0 {
			continue
		}
		switch string(raw) {
		case "added in local", "removed in local", "removed in both":
			skipTreeLines(sc)
		case "added in remote":
			if err := applyAddedInRemote(root, sc); err != nil {
				return err
			}
		case "removed in remote":
			if err := applyRemovedInRemote(root, sc); err != nil {
				return err
			}
		case "changed in both":
			if err := applyChangedInBoth(root, sc); err != nil {
				return err
			}
		case "added in both":
			if err := applyAddedInBoth(root, sc); err != nil {
				return err
			}
		default:
			return conflictErr("merge", "", fmt.Errorf("unmergeable merge-tree header %q", string(raw)))
		}
	}
}

func applyAddedInRemote(root *overlay.TreeOverlay, sc *lineScanner) error {
	tl, ok := nextTreeLine(sc)
	if !ok || tl.whose != "their" {
		return conflictErr("merge", "", fmt.Errorf("added in remote: expected exactly one 'their' line"))
	}
	if err := requireMode(tl); err != nil {
		return err
	}
	folder, name, err := resolve(root, tl.path)
	if err != nil {
		return err
	}
	return folder.Set(name, overlay.Entry{Kind: overlay.KindBlob, OID: tl.oid})
}

func applyRemovedInRemote(root *overlay.TreeOverlay, sc *lineScanner) error {
	a, ok1 := nextTreeLine(sc)
	b, ok2 := nextTreeLine(sc)
	if !ok1 || !ok2 {
		return conflictErr("merge", "", fmt.Errorf("removed in remote: expected two tree lines"))
	}
	for _, tl := range [2]treeLine{a, b} {
		if err := requireMode(tl); err != nil {
			return err
		}
	}
	hasOur := a.whose == "our" || b.whose == "our"
	hasBase := a.whose == "base" || b.whose == "base"
	if !hasOur || !hasBase || a.path != b.path || a.oid != b.oid {
		return conflictErr("merge", a.path, fmt.Errorf("removed in remote: malformed record"))
	}
	folder, name, err := resolve(root, a.path)
	if err != nil {
		return err
	}
	folder.Remove(name)
	return nil
}

func applyAddedInBoth(root *overlay.TreeOverlay, sc *lineScanner) error {
	a, ok1 := nextTreeLine(sc)
	b, ok2 := nextTreeLine(sc)
	if !ok1 || !ok2 {
		return conflictErr("merge", "", fmt.Errorf("added in both: expected two tree lines"))
	}
	for _, tl := range [2]treeLine{a, b} {
		if err := requireMode(tl); err != nil {
			return err
		}
	}
	var our, their treeLine
	switch {
	case a.whose == "our" && b.whose == "their":
		our, their = a, b
	case a.whose == "their" && b.whose == "our":
		our, their = b, a
	default:
		return conflictErr("merge", "", fmt.Errorf("added in both: expected one 'our' and one 'their' line"))
	}
	if our.path != their.path {
		return conflictErr("merge", "", fmt.Errorf("added in both: path mismatch"))
	}
	if our.oid == their.oid {
		return nil
	}
	return conflictErr("merge", our.path, fmt.Errorf("added in both: conflicting content at %q", our.path))
}

func applyChangedInBoth(root *overlay.TreeOverlay, sc *lineScanner) error {
	base, ok1 := nextTreeLine(sc)
	our, ok2 := nextTreeLine(sc)
	their, ok3 := nextTreeLine(sc)
	if !ok1 || !ok2 || !ok3 || base.whose != "base" || our.whose != "our" || their.whose != "their" {
		return conflictErr("merge", "", fmt.Errorf("changed in both: expected base/our/their tree lines"))
	}
	if base.path != our.path || our.path != their.path {
		return conflictErr("merge", "", fmt.Errorf("changed in both: path mismatch"))
	}
	for _, tl := range [3]treeLine{base, our, their} {
		if err := requireMode(tl); err != nil {
			return err
		}
	}

	diff := consumeDiff(sc)

	folder, name, err := resolve(root, our.path)
	if err != nil {
		return err
	}
	node, err := folder.Get(name)
	if err != nil {
		return err
	}
	blob, ok := node.(*overlay.Blob)
	if !ok {
		return conflictErr("merge", our.path, fmt.Errorf("expected a blob at %q", our.path))
	}

	tmpFile, err := dumpToTemp(blob)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	out, err := store.RunPatch(filepath.Dir(tmpFile), filepath.Base(tmpFile), diff)
	if err != nil {
		return err
	}
	if bytes.Contains(out, []byte("<<<<<<< ")) {
		return conflictErr("merge", our.path, fmt.Errorf("conflict markers reported by patch at %q", our.path))
	}

	patched, err := os.ReadFile(tmpFile)
	if err != nil {
		return core.NewError(core.KindStoreFailed, "merge", our.path, err)
	}
	if bytes.Contains(patched, []byte("<<<<<<< ")) {
		return conflictErr("merge", our.path, fmt.Errorf("conflict markers left in patched file at %q", our.path))
	}

	w, err := folder.NewBlobWriter(name, blob)
	if err != nil {
		return err
	}
	if _, err := w.Write(patched); err != nil {
		return err
	}
	return w.Close()
}

func dumpToTemp(blob *overlay.Blob) (string, error) {
	r, err := blob.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	f, err := os.CreateTemp("", "acidfs-merge-*")
	if err != nil {
		return "", core.NewError(core.KindStoreFailed, "merge", "", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", core.NewError(core.KindStoreFailed, "merge", "", err)
	}
	return f.Name(), nil
}

package acidfs

import (
	"errors"

	"github.com/nickyhof/acidfs/overlay"
)

// findParent walks all but the last component of parts, returning the
// directory that should contain the final component plus that final
// component itself. It fails with PathNotFound/NotADirectory rather than
// creating anything.
func (h *Handle) findParent(op string, parts []string) (*overlay.TreeOverlay, string, error) {
	if len(parts) == 0 {
		return nil, "", errRootOperation
	}
	node, err := h.session.Root().Find(parts[:len(parts)-1])
	if err != nil {
		return nil, "", err
	}
	if node == nil {
		return nil, "", pathNotFound(op, joinPath(parts))
	}
	dir, ok := node.(*overlay.TreeOverlay)
	if !ok {
		return nil, "", notADirectory(op, joinPath(parts))
	}
	return dir, parts[len(parts)-1], nil
}

// Mkdir creates a single directory. Fails if path already exists or a
// parent component is a blob.
func (h *Handle) Mkdir(path string) error {
	parts := h.resolvePath(path)
	dir, last, err := h.findParent("mkdir", parts)
	if err != nil {
		return err
	}
	if existing, err := dir.Get(last); err != nil {
		return err
	} else if existing != nil {
		return fileExists("mkdir", path)
	}
	_, err = dir.NewTree(last)
	return err
}

// Mkdirs creates path and any missing ancestor directories, succeeding
// silently if it already exists as a directory.
func (h *Handle) Mkdirs(path string) error {
	parts := h.resolvePath(path)
	cur := h.session.Root()
	for i, name := range parts {
		next, err := cur.Get(name)
		if err != nil {
			return err
		}
		if next == nil {
			child, err := cur.NewTree(name)
			if err != nil {
				return err
			}
			cur = child
			continue
		}
		dir, ok := next.(*overlay.TreeOverlay)
		if !ok {
			return notADirectory("mkdirs", joinPath(parts[:i+1]))
		}
		cur = dir
	}
	return nil
}

// Rm removes a blob. Fails with IsADirectory if path names a directory.
func (h *Handle) Rm(path string) error {
	parts := h.resolvePath(path)
	dir, last, err := h.findParent("rm", parts)
	if err != nil {
		return err
	}
	node, err := dir.Get(last)
	if err != nil {
		return err
	}
	if node == nil {
		return pathNotFound("rm", path)
	}
	if _, ok := node.(*overlay.TreeOverlay); ok {
		return isADirectory("rm", path)
	}
	dir.Remove(last)
	return nil
}

// Rmdir removes an empty directory.
func (h *Handle) Rmdir(path string) error {
	parts := h.resolvePath(path)
	if len(parts) == 0 {
		return errRootOperation
	}
	dir, last, err := h.findParent("rmdir", parts)
	if err != nil {
		return err
	}
	node, err := dir.Get(last)
	if err != nil {
		return err
	}
	if node == nil {
		return pathNotFound("rmdir", path)
	}
	target, ok := node.(*overlay.TreeOverlay)
	if !ok {
		return notADirectory("rmdir", path)
	}
	if !target.Empty() {
		return directoryNotEmpty("rmdir", path)
	}
	dir.Remove(last)
	return nil
}

// Rmtree removes path recursively. The root is never removable.
func (h *Handle) Rmtree(path string) error {
	parts := h.resolvePath(path)
	if len(parts) == 0 {
		return errRootOperation
	}
	dir, last, err := h.findParent("rmtree", parts)
	if err != nil {
		return err
	}
	if node, err := dir.Get(last); err != nil {
		return err
	} else if node == nil {
		return pathNotFound("rmtree", path)
	}
	dir.Remove(last)
	return nil
}

// Mv moves src to dst per the three-way dispatch of spec.md §4.6: dst
// absent rebinds under dst's last component; dst a directory inserts under
// src's own name inside it; dst a blob is replaced in place.
func (h *Handle) Mv(src, dst string) error {
	srcParts := h.resolvePath(src)
	srcDir, srcName, err := h.findParent("mv", srcParts)
	if err != nil {
		return err
	}
	entry, ok := srcDir.Remove(srcName)
	if !ok {
		return pathNotFound("mv", src)
	}

	dstParts := h.resolvePath(dst)
	dstDir, dstLast, err := h.findParent("mv", dstParts)
	if err != nil {
		srcDir.Set(srcName, entry)
		return err
	}

	existing, err := dstDir.Get(dstLast)
	if err != nil {
		srcDir.Set(srcName, entry)
		return err
	}
	if destDir, ok := existing.(*overlay.TreeOverlay); ok {
		return destDir.Set(srcName, entry)
	}
	return dstDir.Set(dstLast, entry)
}

// Exists reports whether path resolves to any node.
func (h *Handle) Exists(path string) (bool, error) {
	node, err := h.session.Root().Find(h.resolvePath(path))
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

// IsDir reports whether path resolves to a directory. The root is always a
// directory.
func (h *Handle) IsDir(path string) (bool, error) {
	parts := h.resolvePath(path)
	if len(parts) == 0 {
		return true, nil
	}
	node, err := h.session.Root().Find(parts)
	if err != nil {
		return false, err
	}
	if node == nil {
		return false, pathNotFound("isdir", path)
	}
	_, ok := node.(*overlay.TreeOverlay)
	return ok, nil
}

// Empty reports whether the directory at path has no entries.
func (h *Handle) Empty(path string) (bool, error) {
	node, err := h.session.Root().Find(h.resolvePath(path))
	if err != nil {
		return false, err
	}
	if node == nil {
		return false, pathNotFound("empty", path)
	}
	dir, ok := node.(*overlay.TreeOverlay)
	if !ok {
		return false, notADirectory("empty", path)
	}
	return dir.Empty(), nil
}

// Listdir returns the entry names of the directory at path, in no
// particular order.
func (h *Handle) Listdir(path string) ([]string, error) {
	node, err := h.session.Root().Find(h.resolvePath(path))
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, pathNotFound("listdir", path)
	}
	dir, ok := node.(*overlay.TreeOverlay)
	if !ok {
		return nil, notADirectory("listdir", path)
	}
	return dir.Names(), nil
}

// Hash returns the object id for path. A directory is saved first (a no-op
// when it is clean); a blob reports its stored oid; a path with an open
// writer cannot be hashed.
func (h *Handle) Hash(path string) (string, error) {
	parts := h.resolvePath(path)
	if len(parts) == 0 {
		oid, err := h.session.Root().Save()
		if err != nil {
			return "", err
		}
		return oid.String(), nil
	}

	node, err := h.session.Root().Find(parts)
	if err != nil {
		return "", err
	}
	if node == nil {
		return "", pathNotFound("hash", path)
	}
	switch n := node.(type) {
	case *overlay.TreeOverlay:
		oid, err := n.Save()
		if err != nil {
			return "", err
		}
		return oid.String(), nil
	case *overlay.Blob:
		return n.OID().String(), nil
	default:
		return "", badMode("hash", path, errOpenWriterNoHash)
	}
}

var errOpenWriterNoHash = errors.New("acidfs: cannot hash a path with an open writer")

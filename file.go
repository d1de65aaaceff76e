package acidfs

import (
	"io"

	"github.com/nickyhof/acidfs/overlay"
	"github.com/nickyhof/acidfs/store"
)

// File is the single handle returned by Open, wrapping either a read-only
// stream off the object store or an in-progress write bound into the
// overlay. Exactly one of reader/writer is non-nil.
type File struct {
	reader *store.BlobReader
	writer *overlay.NewBlob
}

// Open resolves path against the session's overlay and returns a File per
// the mode table of spec.md §4.6:
//
//	"r" — open an existing blob for reading.
//	"w" — create or truncate.
//	"x" — create exclusive; fails with FileExists if path is already bound.
//	"a" — create or open; the prior bytes are copied into the new writer so
//	      subsequent writes append.
func (h *Handle) Open(path, mode string) (*File, error) {
	switch mode {
	case "r":
		return h.openRead(path)
	case "w":
		return h.openWrite(path, false)
	case "x":
		return h.openWrite(path, true)
	case "a":
		return h.openAppend(path)
	default:
		return nil, badMode("open", path, nil)
	}
}

func (h *Handle) openRead(path string) (*File, error) {
	parts := h.resolvePath(path)
	node, err := h.session.Root().Find(parts)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, pathNotFound("open", path)
	}
	blob, ok := node.(*overlay.Blob)
	if !ok {
		return nil, isADirectory("open", path)
	}
	r, err := blob.Open()
	if err != nil {
		return nil, err
	}
	return &File{reader: r}, nil
}

func (h *Handle) openWrite(path string, exclusive bool) (*File, error) {
	parts := h.resolvePath(path)
	dir, last, err := h.findParent("open", parts)
	if err != nil {
		return nil, err
	}
	existing, err := dir.Get(last)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if _, ok := existing.(*overlay.TreeOverlay); ok {
			return nil, isADirectory("open", path)
		}
		if exclusive {
			return nil, fileExists("open", path)
		}
	}
	w, err := dir.NewBlobWriter(last, nil)
	if err != nil {
		return nil, err
	}
	return &File{writer: w}, nil
}

func (h *Handle) openAppend(path string) (*File, error) {
	parts := h.resolvePath(path)
	dir, last, err := h.findParent("open", parts)
	if err != nil {
		return nil, err
	}
	existing, err := dir.Get(last)
	if err != nil {
		return nil, err
	}

	var prev *overlay.Blob
	if existing != nil {
		switch e := existing.(type) {
		case *overlay.TreeOverlay:
			return nil, isADirectory("open", path)
		case *overlay.Blob:
			prev = e
		}
	}

	w, err := dir.NewBlobWriter(last, prev)
	if err != nil {
		return nil, err
	}
	f := &File{writer: w}
	if prev != nil {
		r, err := prev.Open()
		if err != nil {
			return nil, err
		}
		defer r.Close()
		if _, err := io.Copy(w, r); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Read implements io.Reader for a file opened in "r" mode.
func (f *File) Read(p []byte) (int, error) {
	if f.reader == nil {
		return 0, errNotOpenForRead
	}
	return f.reader.Read(p)
}

// Write implements io.Writer for a file opened in "w"/"x"/"a" mode.
func (f *File) Write(p []byte) (int, error) {
	if f.writer == nil {
		return 0, errNotOpenForWrite
	}
	return f.writer.Write(p)
}

// Close releases the underlying stream. For a writer this installs the
// finished blob into the overlay; it is safe to call at most once.
func (f *File) Close() error {
	if f.reader != nil {
		return f.reader.Close()
	}
	return f.writer.Close()
}

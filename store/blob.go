package store

import (
	"bytes"
	"io"
	"os/exec"
	"strings"

	"github.com/nickyhof/acidfs/core"
)

// BlobReader is a finite, non-restartable byte stream over `cat-file blob`.
// It is read-only and not seekable, matching spec.md §4.2 and the "no
// seekable file handles" non-goal of §1.
type BlobReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	closed bool
}

// CatFileBlob opens a reader over the content of the blob named by oid.
func (s *Store) CatFileBlob(oid core.OID) (*BlobReader, error) {
	cmd := exec.Command("git", "cat-file", "blob", oid.String())
	cmd.Dir = s.Dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, core.NewError(core.KindStoreFailed, "cat-file", "", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, core.NewError(core.KindStoreFailed, "cat-file", "", err)
	}
	return &BlobReader{cmd: cmd, stdout: stdout, stderr: &stderr}, nil
}

func (r *BlobReader) Read(p []byte) (int, error) {
	return r.stdout.Read(p)
}

// Close closes stdout without draining it and waits for the cat-file child
// (a reader closed before EOF can therefore see the child fail), surfacing
// a nonzero exit as
// *core.Error{Kind: KindStoreFailed}. Closing twice is a no-op.
func (r *BlobReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.stdout.Close()
	if err := r.cmd.Wait(); err != nil {
		return storeFailed("cat-file", "git", r.cmd.Args[1:], r.stderr.Bytes(), err)
	}
	return nil
}

// BlobWriter is a write-only handle over `hash-object --stdin`. Closing it
// hashes and stores everything written and resolves the OID method.
// Writers are not readable and not seekable (spec.md §4.2, §1).
type BlobWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	closed bool
	oid    core.OID
}

// HashObjectStdin opens a writer that will hash and store whatever is
// written to it as a new blob object.
func (s *Store) HashObjectStdin() (*BlobWriter, error) {
	cmd := exec.Command("git", "hash-object", "-w", "--stdin")
	cmd.Dir = s.Dir
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, core.NewError(core.KindStoreFailed, "hash-object", "", err)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, core.NewError(core.KindStoreFailed, "hash-object", "", err)
	}
	return &BlobWriter{cmd: cmd, stdin: stdin, stdout: &stdout, stderr: &stderr}, nil
}

func (w *BlobWriter) Write(p []byte) (int, error) {
	return w.stdin.Write(p)
}

// Close finishes hashing and stores the new blob, making OID() valid.
// Closing twice is a no-op: the second call returns nil even if the first
// failed.
func (w *BlobWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return storeFailed("hash-object", "git", w.cmd.Args[1:], w.stderr.Bytes(), err)
	}
	oid, err := core.ParseOID(strings.TrimSpace(w.stdout.String()))
	if err != nil {
		return core.NewError(core.KindStoreFailed, "hash-object", "", err)
	}
	w.oid = oid
	return nil
}

// OID returns the object id produced by a successful Close. It is the zero
// OID until Close has completed without error.
func (w *BlobWriter) OID() core.OID {
	return w.oid
}

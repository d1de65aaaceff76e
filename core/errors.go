package core

import (
	"errors"
	"fmt"
)

// Kind enumerates the error taxonomy of spec.md §7. Each kind carries, where
// the spec defines one, a POSIX errno equivalent so callers that expect
// os.IsNotExist-style checks still work via Errno.
type Kind int

const (
	// KindPathNotFound is a failed lookup (errno 2, ENOENT).
	KindPathNotFound Kind = iota
	// KindIsADirectory is a file op addressed at a directory (errno 21, EISDIR).
	KindIsADirectory
	// KindNotADirectory is a directory op addressed at a blob, or a non-terminal
	// path component that is a blob (errno 20, ENOTDIR).
	KindNotADirectory
	// KindFileExists is an exclusive create or mkdir conflict (errno 17, EEXIST).
	KindFileExists
	// KindDirectoryNotEmpty is rmdir on a non-empty directory (errno 39, ENOTEMPTY).
	KindDirectoryNotEmpty
	// KindBadMode is an invalid or unsupported open() mode string.
	KindBadMode
	// KindOpenFileAtCommit is a vote attempted while a NewBlob writer is open.
	KindOpenFileAtCommit
	// KindDirtyRebase is SetBase called with uncommitted changes pending.
	KindDirtyRebase
	// KindConflict is the umbrella merge-side failure: initial-commit race,
	// unmergeable change, unsupported tree-entry mode, or conflict markers
	// surfacing from the patch phase. One kind is intentional — see
	// spec.md §7.
	KindConflict
	// KindStoreFailed is a plumbing subprocess that exited nonzero.
	KindStoreFailed
	// KindConfigError is a missing repository with Create=false, or another
	// caller-supplied configuration mistake.
	KindConfigError
)

func (k Kind) String() string {
	switch k {
	case KindPathNotFound:
		return "PathNotFound"
	case KindIsADirectory:
		return "IsADirectory"
	case KindNotADirectory:
		return "NotADirectory"
	case KindFileExists:
		return "FileExists"
	case KindDirectoryNotEmpty:
		return "DirectoryNotEmpty"
	case KindBadMode:
		return "BadMode"
	case KindOpenFileAtCommit:
		return "OpenFileAtCommit"
	case KindDirtyRebase:
		return "DirtyRebase"
	case KindConflict:
		return "Conflict"
	case KindStoreFailed:
		return "StoreFailed"
	case KindConfigError:
		return "ConfigError"
	default:
		return "Unknown"
	}
}

// errno returns the POSIX errno equivalent for kinds spec.md assigns one to,
// or 0 otherwise.
func (k Kind) errno() int {
	switch k {
	case KindPathNotFound:
		return 2
	case KindNotADirectory:
		return 20
	case KindIsADirectory:
		return 21
	case KindFileExists:
		return 17
	case KindDirectoryNotEmpty:
		return 39
	default:
		return 0
	}
}

// Error is the single error type surfaced by every acidfs package. Op names
// the failing operation, Path the subject path if any, and Err wraps the
// underlying cause (a subprocess failure, a syscall error, etc).
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Errno int
	Err   error
}

func NewError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Errno: kind.errno(), Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("acidfs: %s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("acidfs: %s %s: %s", e.Op, e.Path, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("acidfs: %s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("acidfs: %s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, &core.Error{Kind: core.KindConflict}) style
// matching: any *Error target with the same Kind matches, whatever its
// Op/Path/Err. Callers more commonly use KindOf below.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, reporting
// ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

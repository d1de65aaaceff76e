package acidfs

import "strings"

// resolvePath splits p on '/', drops empty segments, and resolves it
// against the handle's current working directory unless p is absolute
// (spec.md §4.6).
func (h *Handle) resolvePath(p string) []string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	if strings.HasPrefix(p, "/") {
		return parts
	}
	full := make([]string, 0, len(h.cwd)+len(parts))
	full = append(full, h.cwd...)
	full = append(full, parts...)
	return full
}

// Chdir permanently changes the handle's current working directory.
func (h *Handle) Chdir(path string) error {
	parts := h.resolvePath(path)
	if len(parts) > 0 {
		if isDir, err := h.IsDir(joinPath(parts)); err != nil {
			return err
		} else if !isDir {
			return notADirectory("chdir", path)
		}
	}
	h.cwd = parts
	return nil
}

// Cd runs fn with the working directory scoped to path, restoring the
// prior cwd afterward regardless of fn's outcome.
func (h *Handle) Cd(path string, fn func() error) error {
	prev := h.cwd
	if err := h.Chdir(path); err != nil {
		return err
	}
	defer func() { h.cwd = prev }()
	return fn()
}

func joinPath(parts []string) string {
	return "/" + strings.Join(parts, "/")
}

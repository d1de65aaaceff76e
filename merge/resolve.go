package merge

import (
	"fmt"
	"strings"

	"github.com/nickyhof/acidfs/overlay"
)

// resolve splits path on '/' and walks root down to the final component's
// containing directory, creating any missing intermediate directory the
// remote side implies but our overlay does not yet have. It fails if an
// existing intermediate component is a blob (folder must be a TreeOverlay).
func resolve(root *overlay.TreeOverlay, path string) (*overlay.TreeOverlay, string, error) {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	dir := root
	for _, comp := range parts[:len(parts)-1] {
		node, err := dir.Get(comp)
		if err != nil {
			return nil, "", err
		}
		switch n := node.(type) {
		case nil:
			child, err := dir.NewTree(comp)
			if err != nil {
				return nil, "", err
			}
			dir = child
		case *overlay.TreeOverlay:
			dir = n
		default:
			return nil, "", conflictErr("merge", path, fmt.Errorf("path component %q is not a directory", comp))
		}
	}
	return dir, name, nil
}

package merge

import (
	"fmt"
	"strings"

	"github.com/nickyhof/acidfs/core"
)

// treeLine is one "<whose> <mode> <oid>\t<path>" line following a merge-tree
// header (spec.md §4.5).
type treeLine struct {
	whose string // "base", "our", or "their"
	mode  string
	oid   core.OID
	path  string
}

var errNotATreeLine = fmt.Errorf("not a tree line")

// parseTreeLine parses line as a tree line, failing (without a typed error,
// since callers use this to distinguish tree lines from header lines) if it
// does not match the grammar.
func parseTreeLine(line string) (treeLine, error) {
	sp := strings.IndexByte(line, ' ')
	if sp < 0 {
		return treeLine{}, errNotATreeLine
	}
	whose := line[:sp]
	if whose != "base" && whose != "our" && whose != "their" {
		return treeLine{}, errNotATreeLine
	}
	rest := line[sp+1:]

	sp2 := strings.IndexByte(rest, ' ')
	if sp2 < 0 {
		return treeLine{}, errNotATreeLine
	}
	mode := rest[:sp2]

	tail := rest[sp2+1:]
	tab := strings.IndexByte(tail, '\t')
	if tab < 0 {
		return treeLine{}, errNotATreeLine
	}
	oid, err := core.ParseOID(tail[:tab])
	if err != nil {
		return treeLine{}, errNotATreeLine
	}
	path := tail[tab+1:]
	if path == "" {
		return treeLine{}, errNotATreeLine
	}
	return treeLine{whose: whose, mode: mode, oid: oid, path: path}, nil
}

// requireMode enforces the "every tree line carries mode 100644" invariant.
func requireMode(tl treeLine) error {
	if tl.mode != "100644" {
		return conflictErr("merge", tl.path, fmt.Errorf("unsupported tree-entry mode %q", tl.mode))
	}
	return nil
}

func nextTreeLine(sc *lineScanner) (treeLine, bool) {
	raw, ok := sc.next()
	if !ok {
		return treeLine{}, false
	}
	tl, err := parseTreeLine(string(raw))
	if err != nil {
		return treeLine{}, false
	}
	return tl, true
}

// skipTreeLines discards every upcoming line that parses as a tree line,
// used for the ignored "added in local"/"removed in local"/"removed in
// both" records whose tree-line count this package does not need to track.
func skipTreeLines(sc *lineScanner) {
	for {
		raw, ok := sc.peek()
		if !ok {
			return
		}
		if len(raw) == 0 {
			sc.next()
			continue
		}
		if _, err := parseTreeLine(string(raw)); err != nil {
			return
		}
		sc.next()
	}
}

func conflictErr(op, path string, err error) error {
	return core.NewError(core.KindConflict, op, path, err)
}

package store

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v6/plumbing/filemode"

	"github.com/nickyhof/acidfs/core"
)

// EntryKind is the tree-entry discriminator. Per spec.md §1's explicit
// non-goals, only blob and tree entries are ever produced or accepted —
// symlinks, the executable bit, submodules (gitlinks), and every other
// git mode make LsTree fail with a *core.Error of KindConflict.
type EntryKind int

const (
	KindBlob EntryKind = iota
	KindTree
)

func (k EntryKind) gitKind() string {
	if k == KindTree {
		return "tree"
	}
	return "blob"
}

func (k EntryKind) mode() filemode.FileMode {
	if k == KindTree {
		return filemode.Dir
	}
	return filemode.Regular
}

// RawEntry is one row of ls-tree / mktree input: a name, its kind, and the
// object id it resolves to.
type RawEntry struct {
	Name string
	Kind EntryKind
	OID  core.OID
}

// LsTree reads the one-level (non-recursive) entries of a tree object.
func (s *Store) LsTree(tree core.OID) ([]RawEntry, error) {
	if tree.IsZero() {
		return nil, nil
	}
	out, err := run(s.Dir, "ls-tree", nil, "git", "ls-tree", tree.String())
	if err != nil {
		return nil, err
	}
	return parseLsTree(out)
}

func parseLsTree(out []byte) ([]RawEntry, error) {
	var entries []RawEntry
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line == "" {
			continue
		}
		entry, err := parseTreeLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseTreeLine parses a single "<mode> SP <type> SP <oid> TAB <name>" line
// as emitted by ls-tree. The merge package parses merge-tree's tree lines
// with its own parser.
func parseTreeLine(line string) (RawEntry, error) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) != 3 {
		return RawEntry{}, fmt.Errorf("acidfs: malformed tree line %q", line)
	}
	rest := strings.SplitN(fields[2], "\t", 2)
	if len(rest) != 2 {
		return RawEntry{}, fmt.Errorf("acidfs: malformed tree line %q", line)
	}
	oid, err := core.ParseOID(rest[0])
	if err != nil {
		return RawEntry{}, err
	}

	var kind EntryKind
	switch fields[0] {
	case "100644":
		kind = KindBlob
	case "040000":
		kind = KindTree
	default:
		return RawEntry{}, core.NewError(core.KindConflict, "ls-tree", rest[1],
			fmt.Errorf("unsupported tree-entry mode %q (only 100644 and 040000 are supported)", fields[0]))
	}
	return RawEntry{Name: rest[1], Kind: kind, OID: oid}, nil
}

// MkTree writes entries as a new tree object and returns its id.
func (s *Store) MkTree(entries []RawEntry) (core.OID, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%06o %s %s\t%s\n", uint32(e.Kind.mode()), e.Kind.gitKind(), e.OID.String(), e.Name)
	}
	out, err := run(s.Dir, "mktree", buf.Bytes(), "git", "mktree")
	if err != nil {
		return core.ZeroOID, err
	}
	return core.ParseOID(strings.TrimSpace(string(out)))
}

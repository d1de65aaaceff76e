package store

import (
	"bytes"
	"os/exec"

	"github.com/nickyhof/acidfs/core"
)

// MergeTree runs the three-way merge-tree plumbing command and returns its
// raw stdout, in the record format the merge package's state machine
// parses (spec.md §4.5). merge-tree's exit code is not meaningful here —
// classic merge-tree exits nonzero merely to signal that conflicts were
// found, which is exactly the information the stream itself encodes; only
// a failure to start the subprocess at all is treated as a store failure.
func (s *Store) MergeTree(base, ours, theirs core.OID) ([]byte, error) {
	cmd := exec.Command("git", "merge-tree", base.String(), ours.String(), theirs.String())
	cmd.Dir = s.Dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Start(); err != nil {
		return nil, core.NewError(core.KindStoreFailed, "merge-tree", "", err)
	}
	_ = cmd.Wait() // exit status intentionally ignored; see doc comment above
	return stdout.Bytes(), nil
}

package store

import (
	"bytes"
	"os/exec"

	"github.com/nickyhof/acidfs/core"
)

// RunPatch applies diff to file in place using the external `patch -s`
// utility, as spec.md §4.5/§6 describes for textual three-way merges. It
// returns patch's combined output (used by the merge engine only to check
// for conflict markers), and a *core.Error{Kind: KindStoreFailed} only if
// patch could not be started. patch's exit status is not inspected at all,
// so a nonzero exit (rejected hunks included) is not reported here; the
// merge engine decides conflict-vs-success by scanning the output and the
// patched file for "<<<<<<< " markers.
func RunPatch(dir, file string, diff []byte) ([]byte, error) {
	cmd := exec.Command("patch", "-s", file, "-")
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(diff)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Start(); err != nil {
		return nil, core.NewError(core.KindStoreFailed, "patch", file, err)
	}
	_ = cmd.Wait()
	return out.Bytes(), nil
}

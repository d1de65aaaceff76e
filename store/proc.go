package store

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nickyhof/acidfs/core"
)

// run spawns name(args...) with dir as its working directory, feeds it
// stdin (if non-nil) and waits for it to finish, returning stdout. It is
// used by the one-shot commands (init, config, rev-list, rev-parse, ls-tree,
// mktree, update-ref, reset); the blob streams, commit-tree, merge-base,
// merge-tree and patch drive their own exec.Cmd.
func run(dir, op string, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.Debugf("acidfs/store: %s: running %s %s", op, name, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return nil, storeFailed(op, name, args, stderr.Bytes(), err)
	}
	return stdout.Bytes(), nil
}

func storeFailed(op, name string, args []string, stderr []byte, err error) error {
	tail := strings.TrimSpace(string(stderr))
	if len(tail) > 512 {
		tail = tail[len(tail)-512:]
	}
	wrapped := fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, tail)
	return core.NewError(core.KindStoreFailed, op, "", wrapped)
}

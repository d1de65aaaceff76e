package txn

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickyhof/acidfs/core"
)

const headRefPrefix = "ref: "

// resolveBranch computes the ref path for head (e.g. "refs/heads/main")
// and reports whether it aliases the repository's current HEAD, per
// spec.md §4.4's Open contract. HEAD itself is read directly off disk —
// it is part of the object store's persisted layout (spec.md §6), not a
// plumbing command.
func resolveBranch(storeDir, head string) (refPath string, isHead bool, err error) {
	data, err := os.ReadFile(filepath.Join(storeDir, "HEAD"))
	if err != nil {
		return "", false, core.NewError(core.KindConfigError, "open", storeDir, err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, headRefPrefix) {
		return "", false, core.NewError(core.KindConfigError, "open", storeDir,
			fmt.Errorf("HEAD is not a symbolic ref: %q", line))
	}
	currentRef := strings.TrimPrefix(line, headRefPrefix)

	if head == "HEAD" || head == currentRef {
		return currentRef, true, nil
	}
	candidate := head
	if !strings.HasPrefix(candidate, "refs/") {
		candidate = "refs/heads/" + head
	}
	return candidate, candidate == currentRef, nil
}

// readRef reads refPath relative to storeDir, returning (ZeroOID, nil) if
// the ref file does not exist yet (an unborn branch).
func readRef(storeDir, refPath string) (core.OID, error) {
	data, err := os.ReadFile(filepath.Join(storeDir, refPath))
	switch {
	case err == nil:
		oid, perr := core.ParseOID(strings.TrimSpace(string(data)))
		if perr != nil {
			return core.ZeroOID, core.NewError(core.KindConfigError, "open", refPath, perr)
		}
		return oid, nil
	case os.IsNotExist(err):
		return core.ZeroOID, nil
	default:
		return core.ZeroOID, core.NewError(core.KindStoreFailed, "open", refPath, err)
	}
}

// writeRef overwrites refPath relative to storeDir with commit's hex form,
// creating any missing parent directories (spec.md §4.4 Finish).
func writeRef(storeDir, refPath string, commit core.OID) error {
	full := filepath.Join(storeDir, refPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return core.NewError(core.KindStoreFailed, "finish", refPath, err)
	}
	if err := os.WriteFile(full, []byte(commit.String()+"\n"), 0o644); err != nil {
		return core.NewError(core.KindStoreFailed, "finish", refPath, err)
	}
	return nil
}

// refExists reports whether refPath exists relative to storeDir.
func refExists(storeDir, refPath string) bool {
	_, err := os.Stat(filepath.Join(storeDir, refPath))
	return err == nil
}

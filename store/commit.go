package store

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/nickyhof/acidfs/core"
)

// ErrRefMissing is returned by RevListOne when ref does not resolve to any
// commit (an unborn branch, or a typo).
var ErrRefMissing = errors.New("acidfs: ref does not resolve to a commit")

// ErrNoMergeBase is returned by MergeBase when the two commits share no
// common ancestor.
var ErrNoMergeBase = errors.New("acidfs: commits share no merge base")

// RevListOne resolves ref to the commit OID it currently points to.
func (s *Store) RevListOne(ref string) (core.OID, error) {
	out, err := run(s.Dir, "rev-list", nil, "git", "rev-list", "--max-count=1", ref)
	if err != nil {
		// rev-list fails outright on a ref that names nothing; rev-parse
		// --verify --quiet exits 1 in exactly that case, which tells it
		// apart from a genuine store failure.
		var exitErr *exec.ExitError
		_, verr := run(s.Dir, "rev-parse", nil, "git", "rev-parse", "--verify", "--quiet", ref+"^{commit}")
		if errors.As(verr, &exitErr) && exitErr.ExitCode() == 1 {
			return core.ZeroOID, ErrRefMissing
		}
		return core.ZeroOID, err
	}
	line := strings.TrimSpace(string(out))
	if line == "" {
		return core.ZeroOID, ErrRefMissing
	}
	return core.ParseOID(line)
}

// RevParseTree resolves the tree OID rooted at commit.
func (s *Store) RevParseTree(commit core.OID) (core.OID, error) {
	out, err := run(s.Dir, "rev-parse", nil, "git", "rev-parse", commit.String()+"^{tree}")
	if err != nil {
		return core.ZeroOID, err
	}
	return core.ParseOID(strings.TrimSpace(string(out)))
}

// CommitTree creates a commit object over tree with the given parents,
// message, and author/committer environment overrides (see
// core.Identity.Env), returning the new commit's OID.
func (s *Store) CommitTree(tree core.OID, parents []core.OID, message string, authorEnv []string) (core.OID, error) {
	args := []string{"commit-tree", tree.String()}
	for _, p := range parents {
		args = append(args, "-p", p.String())
	}
	args = append(args, "-m", message)

	cmd := exec.Command("git", args...)
	cmd.Dir = s.Dir
	cmd.Env = append(cmd.Environ(), authorEnv...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return core.ZeroOID, storeFailed("commit-tree", "git", args, []byte(stderr.String()), err)
	}
	return core.ParseOID(strings.TrimSpace(stdout.String()))
}

// MergeBase returns the youngest common ancestor of a and b, or
// ErrNoMergeBase if the commits share no history.
func (s *Store) MergeBase(a, b core.OID) (core.OID, error) {
	args := []string{"merge-base", a.String(), b.String()}
	cmd := exec.Command("git", args...)
	cmd.Dir = s.Dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		// git merge-base exits 1 with no stderr when the commits share no
		// common ancestor; any other exit code or stderr output is a
		// genuine store failure (bad ref, corrupt object, git not found).
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && strings.TrimSpace(stderr.String()) == "" {
			return core.ZeroOID, ErrNoMergeBase
		}
		return core.ZeroOID, storeFailed("merge-base", "git", args, []byte(stderr.String()), err)
	}
	return core.ParseOID(strings.TrimSpace(stdout.String()))
}

// UpdateRef sets refPath (e.g. "refs/heads/main") to point at commit.
func (s *Store) UpdateRef(refPath string, commit core.OID) error {
	_, err := run(s.Dir, "update-ref", nil, "git", "update-ref", refPath, commit.String())
	return err
}

// ResetHard moves HEAD and the working tree to commit.
func (s *Store) ResetHard(commit core.OID) error {
	_, err := run(s.Dir, "reset", nil, "git", "reset", "--hard", commit.String())
	return err
}

// ResetSoft moves HEAD to commit without touching the index or working tree
// — the only safe reset mode for a bare repository, which has neither.
func (s *Store) ResetSoft(commit core.OID) error {
	_, err := run(s.Dir, "reset", nil, "git", "reset", "--soft", commit.String())
	return err
}

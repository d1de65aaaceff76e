package txn

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/store"
)

func newTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	if err := store.Init(dir, true); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store.New(dir), dir
}

func testConfig(dir string) core.Config {
	return core.Config{Repo: dir, Bare: true}.WithDefaults()
}

func commitParents(t *testing.T, gitDir string, commit core.OID) []string {
	t.Helper()
	out, err := exec.Command("git", "--git-dir", gitDir, "log", "-1", "--pretty=%P", commit.String()).Output()
	if err != nil {
		t.Fatalf("git log failed: %v", err)
	}
	line := strings.TrimSpace(string(out))
	if line == "" {
		return nil
	}
	return strings.Fields(line)
}

func TestNoOpVoteLeavesBranchUnwritten(t *testing.T) {
	s, dir := newTestStore(t)
	sess, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := sess.vote(); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := sess.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	if _, err := s.RevListOne("HEAD"); err != store.ErrRefMissing {
		t.Errorf("expected ErrRefMissing, got %v", err)
	}
}

func TestFirstCommitHasNoParents(t *testing.T) {
	s, dir := newTestStore(t)
	sess, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	sess.SetMetadata(core.Metadata{User: "alice", Description: "first write"})

	w, err := sess.Root().NewBlobWriter("foo", nil)
	if err != nil {
		t.Fatalf("NewBlobWriter failed: %v", err)
	}
	w.Write([]byte("Hello\n"))
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := sess.vote(); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := sess.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	commit, err := s.RevListOne("HEAD")
	if err != nil {
		t.Fatalf("RevListOne failed: %v", err)
	}
	if parents := commitParents(t, dir, commit); len(parents) != 0 {
		t.Errorf("expected no parents on the first commit, got %v", parents)
	}
}

func TestSecondSessionFastForwards(t *testing.T) {
	s, dir := newTestStore(t)

	first, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	w, _ := first.Root().NewBlobWriter("foo", nil)
	w.Write([]byte("v1"))
	w.Close()
	if err := first.vote(); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := first.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	second, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if second.GetBase().IsZero() {
		t.Fatal("second session should be based on the first commit")
	}
	w2, _ := second.Root().NewBlobWriter("bar", nil)
	w2.Write([]byte("v2"))
	w2.Close()
	if err := second.vote(); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := second.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	commit, err := s.RevListOne("HEAD")
	if err != nil {
		t.Fatalf("RevListOne failed: %v", err)
	}
	parents := commitParents(t, dir, commit)
	if len(parents) != 1 {
		t.Fatalf("expected exactly one parent on a fast-forward commit, got %v", parents)
	}
}

func TestConcurrentSessionsMerge(t *testing.T) {
	s, dir := newTestStore(t)

	base, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	w, _ := base.Root().NewBlobWriter("seed", nil)
	w.Write([]byte("seed"))
	w.Close()
	if err := base.vote(); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := base.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	s1, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	w1, _ := s1.Root().NewBlobWriter("bar", nil)
	w1.Write([]byte("bar content"))
	w1.Close()

	s2, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	w2, _ := s2.Root().NewBlobWriter("baz", nil)
	w2.Write([]byte("baz content"))
	w2.Close()

	if err := s1.vote(); err != nil {
		t.Fatalf("s1 vote failed: %v", err)
	}
	if err := s1.finish(); err != nil {
		t.Fatalf("s1 finish failed: %v", err)
	}

	if err := s2.vote(); err != nil {
		t.Fatalf("s2 vote should not fail: %v", err)
	}
	if err := s2.finish(); err != nil {
		t.Fatalf("s2 finish failed: %v", err)
	}

	commit, err := s.RevListOne("HEAD")
	if err != nil {
		t.Fatalf("RevListOne failed: %v", err)
	}
	if parents := commitParents(t, dir, commit); len(parents) != 2 {
		t.Fatalf("expected a two-parent merge commit, got %v", parents)
	}

	final, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, name := range []string{"bar", "baz"} {
		node, err := final.Root().Get(name)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", name, err)
		}
		if node == nil {
			t.Errorf("expected %q to survive the merge", name)
		}
	}
}

func TestVoteFailsWithOpenWriter(t *testing.T) {
	s, dir := newTestStore(t)
	sess, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := sess.Root().NewBlobWriter("foo", nil); err != nil {
		t.Fatalf("NewBlobWriter failed: %v", err)
	}

	err = sess.vote()
	kind, ok := core.KindOf(err)
	if !ok || kind != core.KindOpenFileAtCommit {
		t.Fatalf("vote with an open writer = (%v, %v), want KindOpenFileAtCommit", kind, ok)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestSetBaseFailsWhenDirty(t *testing.T) {
	s, dir := newTestStore(t)
	sess, err := Open(s, testConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	w, _ := sess.Root().NewBlobWriter("foo", nil)
	w.Write([]byte("data"))
	w.Close()

	err = sess.SetBase("HEAD")
	kind, ok := core.KindOf(err)
	if !ok || kind != core.KindDirtyRebase {
		t.Fatalf("SetBase on a dirty session = (%v, %v), want KindDirtyRebase", kind, ok)
	}
}

package txn

import (
	"errors"
	"fmt"

	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/merge"
	"github.com/nickyhof/acidfs/store"
)

var errInitialCommitRace = errors.New("acidfs: branch ref was created concurrently by another session")

// vote implements spec.md §4.4's tpc_vote: save the overlay, build a
// commit, acquire the lock, and either fast-forward or run the merge
// engine against the current branch tip.
func (sess *Session) vote() error {
	if !sess.root.Dirty() {
		return nil
	}

	prevTreeOID := sess.root.CommittedOID()
	treeOID, err := sess.root.Save()
	if err != nil {
		return err
	}
	if treeOID == prevTreeOID {
		return nil
	}

	var parents []core.OID
	if !sess.prevCommit.IsZero() {
		parents = []core.OID{sess.prevCommit}
	}
	identity := sess.metadata.ResolveIdentity()
	newCommit, err := sess.store.CommitTree(treeOID, parents, sess.metadata.CommitMessage(), identity.Env())
	if err != nil {
		return err
	}

	lk, err := acquireLock(sess.store.Dir)
	if err != nil {
		return err
	}
	sess.lock = lk

	if sess.prevCommit.IsZero() && refExists(sess.store.Dir, sess.branchRef) {
		return core.NewError(core.KindConflict, "vote", sess.branchRef, errInitialCommitRace)
	}

	ref := sess.branchRef
	if sess.isHead {
		ref = "HEAD"
	}
	current, err := sess.store.RevListOne(ref)
	if err != nil {
		if !errors.Is(err, store.ErrRefMissing) {
			return err
		}
		current = core.ZeroOID
	}

	if current.IsZero() || current == sess.prevCommit {
		sess.nextCommit = newCommit
		sess.state = StateVoted
		return nil
	}

	base, err := sess.store.MergeBase(current, newCommit)
	if err != nil {
		if errors.Is(err, store.ErrNoMergeBase) {
			return core.NewError(core.KindConflict, "vote", sess.branchRef, err)
		}
		return err
	}

	if base == current {
		sess.nextCommit = newCommit
		sess.state = StateVoted
		return nil
	}

	stream, err := sess.store.MergeTree(base, treeOID, current)
	if err != nil {
		return err
	}
	if err := merge.Apply(sess.root, stream); err != nil {
		return err
	}

	mergedTreeOID, err := sess.root.Save()
	if err != nil {
		return err
	}
	mergeCommit, err := sess.store.CommitTree(mergedTreeOID, []core.OID{current, newCommit}, "Merge", identity.Env())
	if err != nil {
		return err
	}

	sess.nextCommit = mergeCommit
	sess.state = StateVoted
	return nil
}

// finish implements spec.md §4.4's tpc_finish: advance the branch to
// next_commit (via reset, for the HEAD-aliased case, or by overwriting the
// ref file directly) and close the session.
func (sess *Session) finish() error {
	if sess.lock == nil {
		return sess.Close()
	}

	if sess.isHead {
		var err error
		if sess.config.Bare {
			err = sess.store.ResetSoft(sess.nextCommit)
		} else {
			err = sess.store.ResetHard(sess.nextCommit)
		}
		if err != nil {
			return fmt.Errorf("acidfs: finish: %w", err)
		}
	} else if err := writeRef(sess.store.Dir, sess.branchRef, sess.nextCommit); err != nil {
		return err
	}

	return sess.Close()
}

package txn

import (
	"errors"

	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/overlay"
	"github.com/nickyhof/acidfs/store"
)

// State is the visible lifecycle stage of spec.md §4.4's state diagram.
type State int

const (
	StateFresh State = iota
	StateActive
	StateVoted
	StateDone
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "Fresh"
	case StateActive:
		return "Active"
	case StateVoted:
		return "Voted"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Session is the per-handle two-phase-commit participant of spec.md §3/§4.4.
type Session struct {
	store  *store.Store
	config core.Config

	branchRef string
	isHead    bool

	prevCommit core.OID
	root       *overlay.TreeOverlay

	state      State
	nextCommit core.OID
	metadata   core.Metadata

	lock   *lock
	closed bool
}

// Open resolves cfg.Head against the object store and populates the root
// overlay from the branch tip, or starts it empty if the branch has never
// been written (spec.md §4.4 "Lifecycle"/"Open").
func Open(s *store.Store, cfg core.Config) (*Session, error) {
	refPath, isHead, err := resolveBranch(s.Dir, cfg.Head)
	if err != nil {
		return nil, err
	}

	sess := &Session{store: s, config: cfg, branchRef: refPath, isHead: isHead, state: StateActive}

	commit, err := readRef(s.Dir, refPath)
	if err != nil {
		return nil, err
	}
	if commit.IsZero() {
		sess.prevCommit = core.ZeroOID
		sess.root = overlay.NewRoot(s, cfg.PathEncoding)
		return sess, nil
	}

	treeOID, err := s.RevParseTree(commit)
	if err != nil {
		return nil, err
	}
	root, err := overlay.LoadRoot(s, treeOID, cfg.PathEncoding)
	if err != nil {
		return nil, err
	}
	sess.prevCommit = commit
	sess.root = root
	return sess, nil
}

// Root returns the session's root overlay, the entry point for every
// façade operation.
func (sess *Session) Root() *overlay.TreeOverlay {
	return sess.root
}

// GetBase returns the commit this session is based on, or the zero OID if
// the branch has never been written.
func (sess *Session) GetBase() core.OID {
	return sess.prevCommit
}

// SetBase rebases the session onto ref, failing with *KindDirtyRebase if
// any change is pending.
func (sess *Session) SetBase(ref string) error {
	if sess.root.Dirty() {
		return core.NewError(core.KindDirtyRebase, "set_base", ref, nil)
	}

	commit, err := sess.store.RevListOne(ref)
	if err != nil {
		if errors.Is(err, store.ErrRefMissing) {
			sess.prevCommit = core.ZeroOID
			sess.root = overlay.NewRoot(sess.store, sess.config.PathEncoding)
			return nil
		}
		return err
	}

	treeOID, err := sess.store.RevParseTree(commit)
	if err != nil {
		return err
	}
	root, err := overlay.LoadRoot(sess.store, treeOID, sess.config.PathEncoding)
	if err != nil {
		return err
	}
	sess.prevCommit = commit
	sess.root = root
	return nil
}

// SetMetadata attaches the transaction metadata a subsequent Vote will use
// to build the commit message and author identity.
func (sess *Session) SetMetadata(m core.Metadata) {
	sess.metadata = m
}

// State reports the session's current lifecycle stage.
func (sess *Session) State() State {
	return sess.state
}

// Close releases the commit lock (if held) and marks the session unusable.
// Calling it more than once is a no-op.
func (sess *Session) Close() error {
	if sess.closed {
		return nil
	}
	sess.closed = true
	sess.state = StateDone
	if sess.lock != nil {
		return sess.lock.unlock()
	}
	return nil
}

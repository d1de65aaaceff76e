package txn

import "github.com/nickyhof/acidfs/coordinator"

// Abort implements coordinator.DataManager: close the session unconditionally.
func (sess *Session) Abort(tx *coordinator.Tx) error {
	return sess.Close()
}

// TPCBegin implements coordinator.DataManager. A Session is already active
// once Open returns, so this is a no-op beyond the interface contract.
func (sess *Session) TPCBegin(tx *coordinator.Tx) error {
	return nil
}

// Commit implements coordinator.DataManager's non-voting commit phase. The
// actual work happens at TPCVote; a Session has nothing to do here.
func (sess *Session) Commit(tx *coordinator.Tx) error {
	return nil
}

// TPCVote implements coordinator.DataManager: attach the transaction
// metadata and run the vote.
func (sess *Session) TPCVote(tx *coordinator.Tx) error {
	sess.SetMetadata(tx.Metadata)
	return sess.vote()
}

// TPCFinish implements coordinator.DataManager.
func (sess *Session) TPCFinish(tx *coordinator.Tx) error {
	return sess.finish()
}

// TPCAbort implements coordinator.DataManager: close the session
// unconditionally, releasing the lock if vote acquired one.
func (sess *Session) TPCAbort(tx *coordinator.Tx) error {
	return sess.Close()
}

// SortKey implements coordinator.DataManager, returning the handle's
// configured coordinator sort key (spec.md §6 `name`).
func (sess *Session) SortKey() string {
	return sess.config.Name
}

var _ coordinator.DataManager = (*Session)(nil)

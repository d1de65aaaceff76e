package coordinator

import "github.com/nickyhof/acidfs/core"

// Tx is the per-transaction context handed to a DataManager at each 2PC
// callback. Metadata carries the description/user/extension fields the
// session consumes to build its commit (spec.md §6).
type Tx struct {
	Metadata core.Metadata
}

// DataManager is the two-phase-commit contract a participant implements to
// register with the transaction coordinator, named directly after the
// callback vocabulary of spec.md §6.
type DataManager interface {
	Abort(tx *Tx) error
	TPCBegin(tx *Tx) error
	Commit(tx *Tx) error
	TPCVote(tx *Tx) error
	TPCFinish(tx *Tx) error
	TPCAbort(tx *Tx) error
	SortKey() string
}

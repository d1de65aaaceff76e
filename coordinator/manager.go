package coordinator

import "github.com/nickyhof/acidfs/core"

// Manager is a minimal single-resource two-phase-commit driver. It is not
// a general-purpose transaction manager — it exists so the CLI and tests
// can drive a single Session end to end without depending on a full
// external coordinator implementation.
type Manager struct {
	dm DataManager
	tx *Tx
}

// Begin joins dm to a fresh transaction carrying meta. It does not itself
// invoke any DataManager callback; Commit runs the full protocol.
func (m *Manager) Begin(dm DataManager, meta core.Metadata) {
	m.dm = dm
	m.tx = &Tx{Metadata: meta}
}

// Commit runs TPCBegin → Commit → TPCVote → TPCFinish, aborting the
// transaction via TPCAbort if any step before TPCFinish fails.
func (m *Manager) Commit() error {
	if err := m.dm.TPCBegin(m.tx); err != nil {
		_ = m.dm.TPCAbort(m.tx)
		return err
	}
	if err := m.dm.Commit(m.tx); err != nil {
		_ = m.dm.TPCAbort(m.tx)
		return err
	}
	if err := m.dm.TPCVote(m.tx); err != nil {
		_ = m.dm.TPCAbort(m.tx)
		return err
	}
	return m.dm.TPCFinish(m.tx)
}

// Abort runs Abort then TPCAbort directly, bypassing the vote phase.
func (m *Manager) Abort() error {
	if err := m.dm.Abort(m.tx); err != nil {
		return err
	}
	return m.dm.TPCAbort(m.tx)
}

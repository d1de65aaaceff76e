package txn

import (
	"path/filepath"

	"github.com/juju/fslock"

	"github.com/nickyhof/acidfs/core"
)

// lockFileName is the single advisory lock spec.md §6 persists at the
// object store root, serializing vote/finish across every session and
// process sharing the store.
const lockFileName = "acidfs.lock"

type lock struct {
	l *fslock.Lock
}

func acquireLock(storeDir string) (*lock, error) {
	l := fslock.New(filepath.Join(storeDir, lockFileName))
	if err := l.Lock(); err != nil {
		return nil, core.NewError(core.KindStoreFailed, "vote", lockFileName, err)
	}
	return &lock{l: l}, nil
}

func (lk *lock) unlock() error {
	if err := lk.l.Unlock(); err != nil {
		return core.NewError(core.KindStoreFailed, "close", lockFileName, err)
	}
	return nil
}

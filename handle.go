package acidfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nickyhof/acidfs/core"
	"github.com/nickyhof/acidfs/coordinator"
	"github.com/nickyhof/acidfs/store"
	"github.com/nickyhof/acidfs/txn"
)

// Handle is a filesystem-style view over one repository, owning exactly
// one Session at a time (spec.md §5). A Handle is not safe for concurrent
// use by multiple goroutines.
type Handle struct {
	store   *store.Store
	config  core.Config
	session *txn.Session
	cwd     []string
}

// Open resolves cfg against the local filesystem, initializing a new
// repository if one is missing and cfg.Create is set, then opens a fresh
// Session on cfg.Head.
func Open(cfg core.Config) (*Handle, error) {
	cfg = cfg.WithDefaults()
	dir := objectStoreDir(cfg)

	if _, err := os.Stat(filepath.Join(dir, "HEAD")); err != nil {
		if !os.IsNotExist(err) {
			return nil, core.NewError(core.KindStoreFailed, "open", dir, err)
		}
		if !cfg.Create {
			return nil, core.NewError(core.KindConfigError, "open", dir,
				fmt.Errorf("repository %q does not exist and create=false", cfg.Repo))
		}
		if err := os.MkdirAll(cfg.Repo, 0o755); err != nil {
			return nil, core.NewError(core.KindStoreFailed, "open", cfg.Repo, err)
		}
		if err := store.Init(cfg.Repo, cfg.Bare); err != nil {
			return nil, err
		}
		if cfg.UserName != "" || cfg.UserEmail != "" {
			if err := store.New(dir).ConfigureIdentity(cfg.UserName, cfg.UserEmail); err != nil {
				return nil, err
			}
		}
	}

	s := store.New(dir)
	sess, err := txn.Open(s, cfg)
	if err != nil {
		return nil, err
	}
	return &Handle{store: s, config: cfg, session: sess}, nil
}

func objectStoreDir(cfg core.Config) string {
	if cfg.Bare {
		return cfg.Repo
	}
	return filepath.Join(cfg.Repo, ".git")
}

// GetBase returns the commit the current transaction is based on.
func (h *Handle) GetBase() core.OID {
	return h.session.GetBase()
}

// SetBase rebases the current transaction onto ref.
func (h *Handle) SetBase(ref string) error {
	return h.session.SetBase(ref)
}

// Commit runs the session through the full two-phase-commit protocol via a
// throwaway single-resource coordinator.Manager, then opens a fresh
// Session so the handle remains usable for a following transaction.
func (h *Handle) Commit(meta core.Metadata) error {
	var mgr coordinator.Manager
	mgr.Begin(h.session, meta)
	err := mgr.Commit()
	if rerr := h.reopen(); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// Abort discards the current transaction's changes and opens a fresh
// Session.
func (h *Handle) Abort() error {
	var mgr coordinator.Manager
	mgr.Begin(h.session, core.Metadata{})
	err := mgr.Abort()
	if rerr := h.reopen(); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

func (h *Handle) reopen() error {
	sess, err := txn.Open(h.store, h.config)
	if err != nil {
		return err
	}
	h.session = sess
	return nil
}

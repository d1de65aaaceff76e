package store

// Store is the ObjectStore adapter (C1): a thin handle onto a git object
// database directory. Dir is the repository's object-store root — the
// ".git" directory of a working repository, or the repository directory
// itself in bare mode — and is used as the working directory for every
// plumbing command this type spawns.
type Store struct {
	Dir string
}

// New returns a Store bound to an existing object store directory. It does
// not verify the directory exists; call Init first if it might not.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Init creates an empty repository at repoPath. For bare=false this creates
// repoPath/.git and a working tree at repoPath; for bare=true repoPath
// itself becomes the object store root.
func Init(repoPath string, bare bool) error {
	args := []string{"init"}
	if bare {
		args = append(args, "--bare")
	}
	_, err := run(repoPath, "init", nil, "git", args...)
	return err
}

// ConfigureIdentity sets the repository-level author identity, as written
// at repository creation time per spec.md §6's UserName/UserEmail options.
func (s *Store) ConfigureIdentity(name, email string) error {
	if name != "" {
		if _, err := run(s.Dir, "config", nil, "git", "config", "user.name", name); err != nil {
			return err
		}
	}
	if email != "" {
		if _, err := run(s.Dir, "config", nil, "git", "config", "user.email", email); err != nil {
			return err
		}
	}
	// quotepath off lets path round-trips that use bytes outside plain ASCII
	// come back through ls-tree unescaped, matching configurable path
	// encodings other than the ascii default.
	_, err := run(s.Dir, "config", nil, "git", "config", "core.quotepath", "off")
	return err
}

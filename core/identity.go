package core

// Identity names the author/committer recorded on a commit object,
// mirroring the GIT_AUTHOR_NAME/GIT_AUTHOR_EMAIL pair git-commit-tree reads
// from the environment.
type Identity struct {
	Name  string
	Email string
}

// Env renders the identity as the environment variable assignments
// commit-tree expects, covering both author and committer plus the
// EMAIL fallback some git builds still consult.
func (id Identity) Env() []string {
	var env []string
	if id.Name != "" {
		env = append(env, "GIT_AUTHOR_NAME="+id.Name, "GIT_COMMITTER_NAME="+id.Name)
	}
	if id.Email != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+id.Email, "GIT_COMMITTER_EMAIL="+id.Email, "EMAIL="+id.Email)
	}
	return env
}

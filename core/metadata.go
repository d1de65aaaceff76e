package core

import "strings"

// DefaultMessage is used when a transaction carries no description.
const DefaultMessage = "AcidFS transaction"

// Metadata is the subset of the external transaction coordinator's
// per-transaction metadata this library consumes to build a commit: a
// free-text description and a "user" field plus an extension map, as
// described in spec.md §6.
type Metadata struct {
	Description string
	User        string
	Extension   map[string]string
}

// CommitMessage returns the commit message for this transaction, falling
// back to DefaultMessage when no description was supplied.
func (m Metadata) CommitMessage() string {
	if m.Description == "" {
		return DefaultMessage
	}
	return m.Description
}

// ResolveIdentity derives the commit author/committer identity from the
// transaction metadata.
//
// acidfs_user/acidfs_email in the extension map win outright. Otherwise
// user/email in the extension map are used as a general-purpose fallback.
// Failing both, the "user" field is parsed heuristically: many web
// frameworks prefix the authenticated principal with a path segment (e.g.
// a zope "userid" of " jsmith" or "auth_tkt:jsmith") — a leading space
// means "strip exactly one space and use the rest", otherwise everything
// after the first whitespace run is used (or the whole string, if it
// contains no whitespace at all). This mirrors the ambiguous behavior
// called out as an open question in spec.md §9 and is not changed here.
func (m Metadata) ResolveIdentity() Identity {
	id := Identity{}
	if v, ok := m.Extension["acidfs_user"]; ok {
		id.Name = v
	} else if v, ok := m.Extension["user"]; ok {
		id.Name = v
	} else {
		id.Name = extractUser(m.User)
	}

	if v, ok := m.Extension["acidfs_email"]; ok {
		id.Email = v
	} else if v, ok := m.Extension["email"]; ok {
		id.Email = v
	}

	return id
}

func extractUser(user string) string {
	if user == "" {
		return ""
	}
	if strings.HasPrefix(user, " ") {
		return user[1:]
	}
	if i := strings.IndexAny(user, " \t"); i >= 0 {
		return strings.TrimLeft(user[i+1:], " \t")
	}
	return user
}

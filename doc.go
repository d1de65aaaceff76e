// Package acidfs implements an ACID, transactional filesystem-style view
// over a content-addressed, git-compatible object database. A Handle
// resolves paths against an in-memory overlay tree that is mutated by
// ordinary filesystem-shaped operations and serialized back into the store
// only on a successful two-phase commit.
package acidfs

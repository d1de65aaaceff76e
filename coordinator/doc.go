// Package coordinator provides the two-phase-commit vocabulary a Session
// registers under (spec.md §6) and a minimal single-resource Manager that
// drives one DataManager through that protocol — standing in for the
// external transaction coordinator this library is designed to plug into.
package coordinator

// Package core defines the value types shared by every layer of acidfs:
// object ids, commit identity, error taxonomy, and the repository
// configuration accepted when a filesystem handle is opened.
package core

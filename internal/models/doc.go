// Package models defines the backend-agnostic entity shapes moved by vaultx.
//
// The package contains the two migrated record types:
//   - [Account] : a stored credential set with optional session cookies
//   - [Group] : a named, ordered collection of account references
//
// Every storage backend translates its native representation into these
// types on read and back on write. The normalization rules both backends
// must honor live here: numeric fields default to zero when unstored, and
// a nil Cookies slice is distinct from an empty one (nil means the field
// was never stored, empty means it was stored with zero entries).
//
// Group.AccountIDs entries are soft references: they name accounts by id
// without any backend enforcing that the referenced accounts exist.
package models

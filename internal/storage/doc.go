// Package storage implements the backends vaultx migrates between.
//
// The core abstraction is [Backend], one capability surface both storage
// kinds satisfy despite very different native data models:
//   - [SqliteBackend] : typed columns, with cookies and account_ids held
//     as JSON-encoded text
//   - [MongoBackend] : schemaless documents keyed by _id, with cookies and
//     account_ids held as native nested values
//
// Both implementations translate to and from the entity shapes in
// internal/models and must produce identical model values for identical
// logical content. [New] constructs a backend from a [Kind] tag and
// kind-specific parameters, validating required parameters before any
// file or network I/O.
//
// Reads return records ordered ascending by id. Writes upsert by id: a
// record is inserted when absent and fully replaced when present. A single
// failing record does not stop the remaining records in its batch; the
// collected failures surface as one joined error.
package storage

// Package tasks implements the migration operations that run on top of
// the storage backends.
//
// The core type is [Engine], which orchestrates read → transform → report
// → write against a source and target [storage.Backend]. Operations emit
// [ProgressUpdate] values via channels for non-blocking status reporting
// to the CLI layer.
//
// A dry run stops after the report step and never touches the target.
// Failures abort the remaining steps without rollback: records already
// upserted stay upserted. Accounts are written before groups, mirroring
// the soft-reference direction, though membership is never validated.
package tasks

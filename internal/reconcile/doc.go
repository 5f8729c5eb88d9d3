// Package reconcile aligns stored catalog entries with current filesystem
// contents.
//
// A scan cycle lists the library root, parses each filename into candidate
// metadata, classifies the file against the store into one of four existence
// verdicts (new, unchanged, restorable, altered), and applies the matching
// mutation. The converse integrity pass soft-deletes active entries whose
// files are gone. Processing is independent per file and idempotent across
// repeated runs; only a failed listing aborts a cycle.
package reconcile

// Package catalog persists game archive records in SQLite and owns their
// soft-delete lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, and the create/update/soft-delete/restore operations the
// reconciliation engine applies. FindByPath deliberately includes soft-deleted
// rows: file_path is the stable identity key and stays unique across the whole
// table, so a deleted row reserves its path until it is restored.
//
// Treat this package as the single source of truth for entry semantics; when
// you add fields, update schema.sql and bump schemaVersion.
package catalog

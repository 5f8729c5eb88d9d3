// Package scanner enumerates archive files under the configured library root.
//
// The Lister interface has two implementations: a recursive filesystem walker
// filtered to a fixed allow-list of archive extensions, and an in-memory mock
// used by tests and the use_mock_files development toggle.
package scanner

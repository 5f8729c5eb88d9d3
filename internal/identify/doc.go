// Package identify extracts game metadata embedded in archive filenames.
//
// The filename grammar uses parenthesized markers appended to the title:
// a four-digit release year "(2013)", an optional version tag "(v1.0.0)", and
// an optional early-access flag "(EA)". Parsing is pure string work with no
// I/O; enrichment from external metadata sources lives elsewhere.
package identify

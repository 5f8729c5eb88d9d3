// Package library maps catalog entries back to archive files on disk and
// opens them for streaming reads.
package library

// Package daemon runs the long-lived ludex process: a periodic catalog scan
// loop, an HTTP API for status, catalog queries, and downloads, and a lock
// file that enforces single-instance execution.
package daemon

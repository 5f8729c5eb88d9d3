// Command ludex is the command line interface for the ludex catalog: it runs
// scans, lists and inspects entries, and manages configuration.
package main

// Package version contains information on the current version of parrot.
// It is split from the main program for easy use by both binaries.
package version

// Current is the string representing the current version of parrot.
const Current = "0.1.0"

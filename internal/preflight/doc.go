// Package preflight checks that the directories and executables encodeflow
// depends on are usable before the pipeline starts.
//
// The daemon logs these results at startup and the "encodeflow check" command
// prints them. A failed check is reported, not enforced: the watcher and
// encoder surface their own errors when they run.
package preflight

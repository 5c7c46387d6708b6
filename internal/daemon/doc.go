// Package daemon coordinates the long-running encodeflow process.
//
// It wires the arrival watcher and the workflow manager into a single
// lifecycle guarded by a flock-based lock file, so only one instance drains a
// given log directory at a time. Start brings components up consumer first
// (workflow, then watcher, then the optional status API) and Stop tears them
// down in reverse so no new files are detected while the last encode
// finishes.
//
// The status API is read-only: it reports queue depths, the active job and
// attempt counters. There is no endpoint that mutates the queues.
package daemon

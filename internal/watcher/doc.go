// Package watcher turns filesystem creation events into queued jobs.
//
// The Watcher subscribes to the configured directory through fsnotify
// (non-recursively) and reacts only to Create events whose base name matches
// the configured glob. Each matching event gets its own goroutine that polls
// the readiness checker until the file can be read, then pushes a Job onto the
// primary queue. Pending waits never block the event loop or each other, and
// they are abandoned on shutdown or when the file disappears.
//
// Duplicate events for one path produce duplicate jobs; nothing is
// deduplicated.
package watcher

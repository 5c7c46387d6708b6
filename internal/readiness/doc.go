// Package readiness decides whether a newly arrived file is safe to read.
//
// A file is ready when an exclusive, non-blocking lock can be taken on it and
// it has a non-zero size. flock is advisory and cp, rsync, scp or ffmpeg never
// take it, so on Linux the probe also scans /proc/*/fd and refuses a file any
// visible process still has open for writing. This is still a heuristic: a
// writer that reopens the file between chunks, or runs as another user, can
// produce a false positive, and elsewhere only the lock is consulted. A lock
// or write handle that is never released keeps a file unready forever.
// Callers poll; there is no timeout. The optional stable-size gate narrows the
// remaining gap by requiring two consecutive probes to observe the same size.
package readiness

package readiness

import (
	"os"
	"sync"

	"github.com/gofrs/flock"
)

// Checker reports whether a path can be handed to the encoder.
type Checker interface {
	IsReady(path string) bool
}

// Prober is the lock-and-size readiness check.
//
// flock is advisory on Linux and most copy tools never take it, so on Linux
// the probe also refuses a file that any process still has open for writing.
// A writer that closes and reopens the file between chunks can still slip
// through; the stable-size gate narrows that gap.
type Prober struct{}

// IsReady takes an exclusive lock on path without creating it and reports
// whether the lock succeeded on a non-empty file that no writer still holds
// open. Every failure yields false.
func (Prober) IsReady(path string) bool {
	_, ok := probe(path)
	return ok
}

func probe(path string) (int64, bool) {
	lock := flock.New(path, flock.SetFlag(os.O_RDONLY))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return 0, false
	}
	defer lock.Unlock() //nolint:errcheck

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	if openForWriting(path) {
		return 0, false
	}
	return info.Size(), info.Size() > 0
}

// StableProber additionally requires the size observed by two consecutive
// successful probes of the same path to match.
type StableProber struct {
	mu    sync.Mutex
	sizes map[string]int64
}

// NewStableProber constructs an empty StableProber.
func NewStableProber() *StableProber {
	return &StableProber{sizes: make(map[string]int64)}
}

// IsReady implements Checker. A path is forgotten once it is reported ready or
// fails a probe, so a later arrival under the same name starts over.
func (p *StableProber) IsReady(path string) bool {
	size, ok := probe(path)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !ok {
		delete(p.sizes, path)
		return false
	}
	previous, seen := p.sizes[path]
	if seen && previous == size {
		delete(p.sizes, path)
		return true
	}
	p.sizes[path] = size
	return false
}

// New returns the checker selected by configuration.
func New(requireStableSize bool) Checker {
	if requireStableSize {
		return NewStableProber()
	}
	return Prober{}
}

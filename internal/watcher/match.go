package watcher

import (
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// Matches reports whether name satisfies the glob pattern. Both sides are
// NFC-normalized first so decomposed filenames, as some clients write them,
// match a composed pattern. An empty pattern matches everything; a malformed
// pattern matches nothing. "*.*" only matches names containing a dot.
func Matches(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := filepath.Match(norm.NFC.String(pattern), norm.NFC.String(name))
	return err == nil && ok
}

package watcher

import "testing"

func TestMatches(t *testing.T) {
	cases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "anything", true},
		{"*", "a.mov", true},
		{"*.*", "a.mov", true},
		{"*.*", "README", false},
		{"*.mkv", "a.mov", false},
		{"show-??.mkv", "show-01.mkv", true},
		{"[", "a", false},
		// Composed pattern, decomposed name.
		{"caf\u00e9*", "cafe\u0301 night.mov", true},
	}
	for _, tc := range cases {
		if got := Matches(tc.pattern, tc.name); got != tc.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tc.pattern, tc.name, got, tc.want)
		}
	}
}

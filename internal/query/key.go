package query

import "strings"

// Key identifies a cached read. Keys are structural: a list of segments from
// coarse to fine, e.g. K("journal", "2026-08-30"). Invalidation matches by
// prefix, so invalidating K("journal") drops every cached journal day.
type Key []string

// K builds a Key from its segments.
func K(parts ...string) Key {
	return Key(parts)
}

// String renders the key in its canonical form. Segments never contain the
// separator because every caller builds keys from ids, dates and enum
// values.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// splitKey is the inverse of String.
func splitKey(s string) Key {
	return Key(strings.Split(s, "/"))
}

// HasPrefix reports whether k starts with all segments of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

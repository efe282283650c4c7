// Package sanitize strips markup from user-supplied text.
package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Clean removes every HTML element from s and returns the remaining plain
// text with entities decoded. Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	// A pass that changes s removes markup or decodes an entity, so the
	// input length bounds the number of passes.
	for range len(s) + 1 {
		next := html.UnescapeString(policy.Sanitize(s))
		if next == s {
			break
		}
		s = next
	}
	return s
}

// Fields cleans every value in place and returns m.
func Fields(m map[string]string) map[string]string {
	for k, v := range m {
		m[k] = Clean(v)
	}
	return m
}

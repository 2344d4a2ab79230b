package textutil

import "unicode/utf8"

// TruncationMarker is appended to file contents and prompts cut to fit a byte budget.
const TruncationMarker = "\n... (truncated)"

// Clip shortens s to at most maxBytes bytes without splitting a UTF-8
// sequence, and reports whether anything was removed.
func Clip(s string, maxBytes int) (string, bool) {
	maxBytes = max(maxBytes, 0)
	if len(s) <= maxBytes {
		return s, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}

// Excerpt is Clip followed by marker when s was cut.
func Excerpt(s string, maxBytes int, marker string) string {
	if clipped, cut := Clip(s, maxBytes); cut {
		return clipped + marker
	}
	return s
}

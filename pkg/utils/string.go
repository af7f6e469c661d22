package utils

import "unicode/utf8"

// Truncate shortens s to at most maxLen bytes plus "...", never splitting a
// UTF-8 sequence. Caller names and transcripts are not ASCII-only.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return "..."
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

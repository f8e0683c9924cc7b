// Package utils provides shared utilities for text, math, and logging.
package utils

// TruncationMarker is appended to text cut by Truncate.
const TruncationMarker = "..."

// Truncate returns s cut to maxLen characters (runes), with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + TruncationMarker
}

package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the usual context length limit for extracted uploads.
const DefaultMaxLength = 5000

// TruncationMarker is appended to text cut down to maxLength characters.
func TruncationMarker(maxLength int) string {
	return fmt.Sprintf("\n\n[Text truncated to %d characters]", maxLength)
}

// Truncate bounds text to maxLength characters (runes), appending a visible
// marker when anything was cut. A negative maxLength is treated as 0.
func Truncate(text string, maxLength int) string {
	maxLength = max(maxLength, 0)
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	n := 0
	for i := range text {
		if n == maxLength {
			return text[:i] + TruncationMarker(maxLength)
		}
		n++
	}
	return text
}

// IsTruncated reports whether text carries the marker Truncate appends.
func IsTruncated(text string, maxLength int) bool {
	return strings.HasSuffix(text, TruncationMarker(max(maxLength, 0)))
}

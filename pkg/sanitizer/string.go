package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// NFC returns s in Unicode normalization form C, so visually identical
// input encodes to identical bytes.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// NormalizeNewlines turns CRLF and lone CR into LF.
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// RemoveControlChars drops ANSI escape sequences and every control character
// except newline and tab.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, ansiEscape.ReplaceAllString(s, ""))
}

// StripURLNoise trims s and removes tabs, newlines and other control
// characters anywhere in it, the way browsers do when parsing a URL.
func StripURLNoise(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// Text prepares free-form text: newlines normalized, control characters
// removed, NFC applied. Leading and trailing spaces are kept.
var Text = Compose(NormalizeNewlines, RemoveControlChars, NFC)

// URL prepares a user-supplied link for validation.
var URL = Compose(StripURLNoise, NFC)

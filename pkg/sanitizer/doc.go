// Package sanitizer normalizes user-supplied QR content before it is
// validated and encoded.
//
// Transforms are plain func(string) string values combined with Compose, so
// callers can build their own pipelines:
//
//	clean := sanitizer.Compose(strings.TrimSpace, sanitizer.NFC)
//	content = clean(content)
//
// Text and URL are the pipelines used for the two content kinds.
package sanitizer

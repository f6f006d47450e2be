package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Verify reports whether token matches the stored "<salt>:<hash>" value.
// Any malformed input returns false.
func (m *Manager) Verify(token, stored string) bool {
	if token == "" {
		return false
	}
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != SaltBytes {
		return false
	}
	want, err := hex.DecodeString(hashHex)
	if err != nil || len(want) != sha256.Size {
		return false
	}
	return subtle.ConstantTimeCompare(digest(salt, token), want) == 1
}

// FromHeader extracts a presented token from an X-Edit-Token header value or
// an "Authorization: Bearer" value. The first non-empty wins.
func FromHeader(editToken, authorization string) string {
	if t := strings.TrimSpace(editToken); t != "" {
		return t
	}
	scheme, value, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}

package token

import "errors"

var (
	// ErrInvalidToken is the only error surfaced to clients on failed verification.
	// It deliberately does not say which part of the credential was wrong.
	ErrInvalidToken = errors.New("invalid or missing token")
	// ErrRandomSource is returned when the random source fails.
	ErrRandomSource = errors.New("failed to read from random source")
)

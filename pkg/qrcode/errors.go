package qrcode

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOptions wraps validator.ValidationErrors for malformed Options.
	ErrInvalidOptions = errors.New("invalid QR options")
	// ErrInvalidContent is returned for content outside 1..MaxContentLength characters.
	ErrInvalidContent = errors.New("invalid content")
	// ErrUnknownFormat is returned by ParseFormat and Export for unsupported formats.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrCapacityExceeded is matched by *CapacityError.
	ErrCapacityExceeded = errors.New("content exceeds QR capacity")
	// ErrLogoFetch is matched by *LogoFetchError.
	ErrLogoFetch = errors.New("failed to fetch logo")
	// ErrNilGrid is returned by Render when called without a grid.
	ErrNilGrid = errors.New("nil module grid")
)

// CapacityError reports content that does not fit in any QR version at Level.
type CapacityError struct {
	Length int
	Level  Level
	Err    error
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("content of %d characters does not fit in a QR code at error correction level %s; shorten it or use a lower level", e.Length, e.Level)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }

func (e *CapacityError) Unwrap() error { return e.Err }

// LogoFetchError reports a failure to download or decode a logo.
type LogoFetchError struct {
	URL string
	Err error
}

func (e *LogoFetchError) Error() string {
	return fmt.Sprintf("failed to fetch logo from %s: %v", e.URL, e.Err)
}

func (e *LogoFetchError) Is(target error) bool { return target == ErrLogoFetch }

func (e *LogoFetchError) Unwrap() error { return e.Err }

package qrcode

import (
	"fmt"
	"unicode/utf8"

	skipqrcode "github.com/skip2/go-qrcode"
)

var recoveryLevels = map[Level]skipqrcode.RecoveryLevel{
	LevelL: skipqrcode.Low,
	LevelM: skipqrcode.Medium,
	LevelQ: skipqrcode.High,
	LevelH: skipqrcode.Highest,
}

// Encode builds the module grid for content at the given level using the
// smallest QR version that fits. Mode selection, Reed-Solomon coding and
// penalty-based mask selection follow ISO/IEC 18004. The result is
// deterministic for a given (content, level).
func Encode(content string, level Level) (*Grid, error) {
	n := utf8.RuneCountInString(content)
	if n == 0 || n > MaxContentLength {
		return nil, fmt.Errorf("%w: must be between 1 and %d characters, got %d", ErrInvalidContent, MaxContentLength, n)
	}
	rl, ok := recoveryLevels[level]
	if !ok {
		return nil, fmt.Errorf("%w: unknown error correction level %q", ErrInvalidOptions, level)
	}

	q, err := skipqrcode.New(content, rl)
	if err != nil {
		return nil, &CapacityError{Length: n, Level: level, Err: err}
	}
	q.DisableBorder = true

	return newGrid(q.VersionNumber, level, q.Bitmap()), nil
}

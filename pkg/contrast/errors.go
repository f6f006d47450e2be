package contrast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidColor is returned when a color is not six hexadecimal digits.
	ErrInvalidColor = errors.New("invalid color: expected 6 hex digits, e.g. #1a2b3c")
	// ErrInsufficientContrast is matched by *Error via errors.Is.
	ErrInsufficientContrast = errors.New("insufficient contrast")
)

// Error reports a color pair whose contrast ratio is below MinRatio.
type Error struct {
	Foreground string
	Background string
	Ratio      float64
}

func (e *Error) Error() string {
	return fmt.Sprintf("contrast ratio %.2f:1 between %s and %s is below the required %.1f:1",
		e.Ratio, e.Foreground, e.Background, MinRatio)
}

// Is makes errors.Is(err, ErrInsufficientContrast) work for *Error.
func (e *Error) Is(target error) bool {
	return target == ErrInsufficientContrast
}

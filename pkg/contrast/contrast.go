package contrast

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// MinRatio is the WCAG AA threshold for normal text.
const MinRatio = 4.5

// Result is the outcome of a contrast check.
type Result struct {
	Ratio float64 `json:"ratio"`
	Valid bool    `json:"valid"`
}

// Check computes the contrast ratio between two hex colors.
// The order of the arguments does not matter.
func Check(foreground, background string) (Result, error) {
	fg, err := ParseHex(foreground)
	if err != nil {
		return Result{}, err
	}
	bg, err := ParseHex(background)
	if err != nil {
		return Result{}, err
	}
	r := Ratio(fg, bg)
	return Result{Ratio: r, Valid: r >= MinRatio}, nil
}

// Validate is Check that turns an insufficient ratio into a *Error.
func Validate(foreground, background string) error {
	res, err := Check(foreground, background)
	if err != nil {
		return err
	}
	if !res.Valid {
		return &Error{Foreground: foreground, Background: background, Ratio: res.Ratio}
	}
	return nil
}

// Ratio returns (Lmax+0.05)/(Lmin+0.05) for the two colors. Alpha is ignored.
func Ratio(a, b color.Color) float64 {
	l1, l2 := Luminance(a), Luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// Luminance returns the WCAG relative luminance of c in [0,1].
func Luminance(c color.Color) float64 {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return 0.2126*linearize(rgba.R) + 0.7152*linearize(rgba.G) + 0.0722*linearize(rgba.B)
}

func linearize(v uint8) float64 {
	s := float64(v) / 255
	if s <= 0.03928 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// ParseHex parses "#rrggbb" or "rrggbb" (any case) into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// IsHex reports whether s is a valid six-digit hex color.
func IsHex(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}

// Hex formats c as lowercase "#rrggbb".
func Hex(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

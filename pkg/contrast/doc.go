// Package contrast implements the WCAG 2.x contrast-ratio check used to decide
// whether a two-color QR code is legible enough to be scanned reliably.
//
// Colors are given as six hexadecimal digits with an optional leading '#'
// ("#1a2b3c", "1A2B3C"). Each color is converted to its relative luminance and
// the ratio (Lmax+0.05)/(Lmin+0.05) is compared against the WCAG AA threshold
// for normal text (4.5:1).
//
// # Usage
//
//	import "github.com/dmitrymomot/permaqr/pkg/contrast"
//
//	res, err := contrast.Check("#000000", "#ffffff")
//	if err != nil {
//		// malformed color
//	}
//	fmt.Printf("%.2f:1 valid=%v\n", res.Ratio, res.Valid) // 21.00:1 valid=true
//
// Validate returns a *contrast.Error carrying the computed ratio when the pair
// is below the threshold, so callers can surface it to the user:
//
//	if err := contrast.Validate(fg, bg); err != nil {
//		var cerr *contrast.Error
//		if errors.As(err, &cerr) {
//			log.Printf("ratio %.2f too low", cerr.Ratio)
//		}
//	}
package contrast

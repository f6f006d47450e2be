package validator

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/permaqr/pkg/contrast"
)

// ValidURLWithScheme validates an absolute URL with a host and one of the schemes.
func ValidURLWithScheme(field, value string, schemes []string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			u, err := url.ParseRequestURI(value)
			if err != nil || u.Host == "" {
				return false
			}
			return slices.Contains(schemes, strings.ToLower(u.Scheme))
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be a valid URL with scheme: %s", strings.Join(schemes, ", ")),
			TranslationKey: "validation.url_scheme",
			TranslationValues: map[string]any{
				"field":   field,
				"schemes": schemes,
			},
		},
	}
}

// HexColor validates a six-digit hex color with an optional leading '#'.
func HexColor(field, value string) Rule {
	return Rule{
		Check: func() bool { return contrast.IsHex(value) },
		Error: ValidationError{
			Field:          field,
			Message:        "must be a 6-digit hex color such as #1a2b3c",
			TranslationKey: "validation.hex_color",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

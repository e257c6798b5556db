package shared

import (
	"fmt"
	"strings"
)

// NormalizeHexColor canonicalizes a hex color string to uppercase "#RRGGBB" form.
//
// Accepts with or without a leading '#' and expands 3-digit shorthand.
// Colors are compared and stored only in this form.
func NormalizeHexColor(s string) (string, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(s) == 3 {
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	}
	if len(s) != 6 {
		return "", fmt.Errorf("%w: %q is not a hex color", ErrInvalidInput, s)
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return "", fmt.Errorf("%w: %q is not a hex color", ErrInvalidInput, s)
		}
	}
	return "#" + strings.ToUpper(s), nil
}

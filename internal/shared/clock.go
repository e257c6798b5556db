package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts a "MM:SS" string or a plain number of seconds to whole seconds.
//
// Mirrors the server's accepted time formats for manual clip boundaries.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty time", ErrInvalidInput)
	}

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("%w: bad minutes %q", ErrInvalidInput, parts[0])
		}
		seconds, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("%w: bad seconds %q", ErrInvalidInput, parts[1])
		}
		if minutes < 0 || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("%w: %s", ErrOutOfRange, s)
		}
		return minutes*60 + seconds, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a time", ErrInvalidInput, s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, s)
	}
	return int(f), nil
}

// FormatClock renders whole seconds as "M:SS".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

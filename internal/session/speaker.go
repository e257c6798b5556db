package session

import (
	"regexp"
	"strconv"

	"github.com/viralclips/clipctl/internal/models"
)

var speakerDigits = regexp.MustCompile(`\d+`)

// SpeakerNumber extracts the speaker slot from a caption's speaker label.
//
// The first embedded integer wins ("Speaker 2" -> 2); labels with no number
// ("Host", "") default to 1. Results outside 1..models.SpeakerCount are
// clamped so style lookups always hit a valid slot.
func SpeakerNumber(label string) int {
	match := speakerDigits.FindString(label)
	if match == "" {
		return 1
	}

	n, err := strconv.Atoi(match)
	if err != nil {
		return 1
	}
	if n < 1 {
		return 1
	}
	if n > models.SpeakerCount {
		return models.SpeakerCount
	}
	return n
}

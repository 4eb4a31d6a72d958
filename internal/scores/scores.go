// Package scores extracts numeric review scores from raw text fragments.
package scores

import (
	"math"
	"strconv"
	"strings"
)

const maxScore = 100

// ScrapeResult carries the scores recovered from one scrape call. Both fields
// are on a 0-100 scale; nil means the source had no usable score.
type ScrapeResult struct {
	Press *int
	User  *int
}

// Empty reports whether the scrape produced neither score.
func (r ScrapeResult) Empty() bool {
	return r.Press == nil && r.User == nil
}

// Parse extracts an integer score from raw text. Blank input and anything
// containing "tbd" (any case) yield no score. Decimals truncate toward zero;
// a result outside 0-100 is not a score.
func Parse(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	if strings.Contains(strings.ToLower(trimmed), "tbd") {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	truncated := math.Trunc(value)
	if truncated < 0 || truncated > maxScore {
		return 0, false
	}
	return int(truncated), true
}

// ParsePtr is Parse for nullable input, returning nil when no score exists.
func ParsePtr(raw *string) *int {
	if raw == nil {
		return nil
	}
	value, ok := Parse(*raw)
	if !ok {
		return nil
	}
	return &value
}

// RescaleUserScore maps a user score onto the 0-100 scale. Values of 10 or
// less are assumed to come from a 0-10 scale and are multiplied by 10; larger
// values pass through. A genuine 100-scale score of 10 or below is
// indistinguishable from a 10-scale score, and is rescaled too.
func RescaleUserScore(value int) int {
	if value <= 10 {
		return value * 10
	}
	return value
}

// ParseUser parses a user score and rescales it to 0-100.
func ParseUser(raw string) (int, bool) {
	value, ok := Parse(raw)
	if !ok {
		return 0, false
	}
	return RescaleUserScore(value), true
}

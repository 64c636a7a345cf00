package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// PatternResult represents a parsed inhale-hold-exhale triple.
type PatternResult struct {
	Inhale int
	Hold   int
	Exhale int
	Valid  bool
}

// patternSpecRegex matches triples like "4-7-8", "4/7/8", "4:7:8" or "4 7 8".
var patternSpecRegex = regexp.MustCompile(`^(\d{1,2})[-/:;, ](\d{1,2})[-/:;, ](\d{1,2})$`)

// ParsePatternSpec parses a compact pattern spec such as "4-7-8" into
// its inhale/hold/exhale durations. It only checks the shape; range
// validation belongs to the validate package.
func ParsePatternSpec(input string) PatternResult {
	input = strings.TrimSpace(input)
	matches := patternSpecRegex.FindStringSubmatch(input)
	if matches == nil {
		return PatternResult{Valid: false}
	}

	inhale, _ := strconv.Atoi(matches[1])
	hold, _ := strconv.Atoi(matches[2])
	exhale, _ := strconv.Atoi(matches[3])

	return PatternResult{
		Inhale: inhale,
		Hold:   hold,
		Exhale: exhale,
		Valid:  true,
	}
}

// LooksLikePatternSpec reports whether the input has the shape of a
// compact pattern spec (used to distinguish "4-7-8" from a pattern name).
func LooksLikePatternSpec(input string) bool {
	return patternSpecRegex.MatchString(strings.TrimSpace(input))
}

package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// DeadlineResult holds the parsed reminder time and any error.
type DeadlineResult struct {
	Time  time.Time
	Error error
}

// relativeRegex matches relative time expressions like "+5m", "+1h", "+2d".
var relativeRegex = regexp.MustCompile(`^\+(\d+)([smhdw])$`)

// ParseDeadline parses a natural language reminder time.
// Supports formats like:
//   - "+5m", "+1h", "+2d" (relative)
//   - "tomorrow 9am", "friday 8pm" (natural language)
//   - "2026-03-10 08:00" (ISO format)
func ParseDeadline(input string) DeadlineResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return DeadlineResult{Error: fmt.Errorf("reminder time is required")}
	}

	// Check for relative time format (+5m, +1h, etc.)
	if match := relativeRegex.FindStringSubmatch(input); match != nil {
		return parseRelativeDeadline(match[1], match[2])
	}

	// Use go-dateparser for natural language parsing
	cfg := &dateparser.Configuration{
		CurrentTime: time.Now(),
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return DeadlineResult{Error: fmt.Errorf("could not parse reminder time %q", input)}
	}

	// Ensure the time is in the future
	if result.Time.Before(time.Now()) {
		// A past time today usually means "that time tomorrow"
		if isSameDay(result.Time, time.Now()) {
			result.Time = result.Time.AddDate(0, 0, 1)
		} else {
			return DeadlineResult{Error: fmt.Errorf("reminder time must be in the future")}
		}
	}

	return DeadlineResult{Time: result.Time}
}

// ParseDate parses a natural language date without the future
// requirement. History range filters use this for inputs like
// "last monday" or "2026-03-01".
func ParseDate(input string) DeadlineResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return DeadlineResult{Error: fmt.Errorf("date is required")}
	}

	cfg := &dateparser.Configuration{
		CurrentTime: time.Now(),
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return DeadlineResult{Error: fmt.Errorf("could not parse date %q", input)}
	}

	return DeadlineResult{Time: result.Time}
}

// unitLengths maps relative suffixes to their duration.
var unitLengths = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// parseRelativeDeadline turns "+N<unit>" into an offset from now.
func parseRelativeDeadline(numStr, unit string) DeadlineResult {
	num, _ := strconv.Atoi(numStr)
	if num <= 0 {
		return DeadlineResult{Error: fmt.Errorf("invalid duration: must be positive")}
	}

	length, ok := unitLengths[unit]
	if !ok {
		return DeadlineResult{Error: fmt.Errorf("invalid time unit: %s", unit)}
	}
	return DeadlineResult{Time: time.Now().Add(time.Duration(num) * length)}
}

// isSameDay compares calendar dates, ignoring clock time.
func isSameDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ParseDeadlineArgs parses a reminder time from command arguments.
// Joins multiple args into a single string for natural language parsing.
func ParseDeadlineArgs(args []string) DeadlineResult {
	if len(args) == 0 {
		return DeadlineResult{Error: fmt.Errorf("reminder time is required")}
	}
	return ParseDeadline(strings.Join(args, " "))
}

package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// User input errors
	ErrInvalidPattern:   "Inhale and exhale must be 1-60 seconds; hold may be 0-60.",
	ErrPatternNotFound:  "Use 'breathe pattern list' to see presets and your custom patterns.",
	ErrPatternExists:    "Pattern names must be unique. Remove the old one first with 'breathe pattern rm'.",
	ErrNotPatternOwner:  "Only the pattern's owner can remove it.",
	ErrPresetImmutable:  "Built-in patterns are fixed. Create a custom one with 'breathe pattern add'.",
	ErrSessionNotFound:  "Use 'breathe history' to see recorded sessions.",
	ErrInvalidTarget:    "Session duration must be positive, e.g. '--for 10m'.",
	ErrInvalidDuration:  "Try formats like '10m', '90s', '1h30m', or '5 minutes'.",
	ErrInvalidDeadline:  "Try formats like 'tomorrow 9am', 'in 2 hours', or '2026-03-10 08:00'.",
	ErrReminderNotFound: "Use 'breathe remind list' to see active reminders.",
	ErrWebhookNotFound:  "Use 'breathe webhook list' to see configured webhooks.",
	ErrInvalidURL:       "Provide a valid URL starting with https:// (or http:// for localhost).",

	// System errors
	ErrDiskFull:           "Free up disk space and try again. Your session is preserved in memory.",
	ErrDatabaseCorrupted:  "The data directory may be damaged. Back it up and reinitialize.",
	ErrStatsConflict:      "Another process updated your stats. The update was retried; run again if it failed.",
	ErrNetworkUnavailable: "Check your internet connection. Notifications will retry automatically.",
	ErrTimeout:            "The operation took too long. Try again or check your network connection.",
	ErrPermissionDenied:   "Check file permissions in your data directory (~/.local/share/breathe/).",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check exact match first
	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	// Check if it's a UserError with a suggestion
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	return ""
}

// GetCategorySuggestion returns a generic suggestion based on error category.
func GetCategorySuggestion(err error) string {
	if IsUserError(err) {
		return "Check your input and try again. Use --help for usage information."
	}
	if IsSystemError(err) {
		return "A system problem occurred. Check disk space and permissions, then retry."
	}
	if IsRecoverableError(err) {
		return "A transient problem occurred. It is usually safe to retry."
	}
	return ""
}

// Package validate provides input validation helpers for the Breathe CLI.
package validate

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/stillpoint/breathe/internal/errors"
)

const (
	// MaxPatternNameLength is the maximum length for a pattern name.
	MaxPatternNameLength = 64
	// MaxPhaseSeconds is the longest a single breathing phase may last.
	MaxPhaseSeconds = 60
	// MaxTitleLength is the maximum length for a reminder title.
	MaxTitleLength = 200
	// MaxURLLength is the maximum length for a URL.
	MaxURLLength = 2048
	// MaxTargetSeconds caps a single session at two hours.
	MaxTargetSeconds = 2 * 60 * 60
)

// nameRegex validates pattern and webhook names (alphanumeric, dashes, underscores, periods).
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Name validates a pattern or webhook name.
func Name(name string) error {
	if name == "" {
		return errors.NewUserError("Name cannot be empty", "Provide a valid name")
	}
	if utf8.RuneCountInString(name) > MaxPatternNameLength {
		return errors.NewUserErrorWithField("name", name,
			"Name too long",
			"Names must be 64 characters or fewer")
	}
	if !nameRegex.MatchString(name) {
		return errors.NewUserErrorWithField("name", name,
			"Invalid name format",
			"Names must start with a letter or number and contain only letters, numbers, dashes, underscores, or periods")
	}
	return nil
}

// PatternDurations validates the inhale/hold/exhale triple.
// Inhale and exhale must be positive; the hold phase may be zero,
// in which case the engine skips it.
func PatternDurations(inhale, hold, exhale int) error {
	if inhale < 1 || inhale > MaxPhaseSeconds {
		return errors.NewUserErrorWithField("inhale", strconv.Itoa(inhale),
			"Invalid inhale duration",
			"Inhale must be between 1 and 60 seconds")
	}
	if hold < 0 || hold > MaxPhaseSeconds {
		return errors.NewUserErrorWithField("hold", strconv.Itoa(hold),
			"Invalid hold duration",
			"Hold must be between 0 and 60 seconds")
	}
	if exhale < 1 || exhale > MaxPhaseSeconds {
		return errors.NewUserErrorWithField("exhale", strconv.Itoa(exhale),
			"Invalid exhale duration",
			"Exhale must be between 1 and 60 seconds")
	}
	return nil
}

// TargetSeconds validates a session target duration.
func TargetSeconds(seconds int) error {
	if seconds < 1 {
		return errors.NewUserError("Session duration must be positive",
			"Use something like '--for 10m'")
	}
	if seconds > MaxTargetSeconds {
		return errors.NewUserError("Session duration too long",
			"Sessions are capped at 2 hours")
	}
	return nil
}

// Title validates a reminder title.
func Title(title string) error {
	if title == "" {
		return errors.NewUserError("Title cannot be empty", "Provide a reminder title")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errors.NewUserError("Title too long",
			"Titles must be 200 characters or fewer")
	}
	return nil
}

// URL validates a URL for use as a webhook endpoint.
func URL(rawURL string) error {
	if rawURL == "" {
		return errors.NewUserError("URL cannot be empty", "Provide a valid URL")
	}
	if len(rawURL) > MaxURLLength {
		return errors.NewUserError("URL too long", "URLs must be 2048 characters or fewer")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL format",
			"Provide a valid URL starting with https://")
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL scheme",
			"URLs must use https:// (or http:// for localhost)")
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL: missing hostname",
			"Provide a valid URL like https://example.com/webhook")
	}

	isLocalhost := hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1"

	// Require HTTPS for non-localhost
	if parsed.Scheme == "http" && !isLocalhost {
		return errors.NewUserErrorWithField("url", rawURL,
			"HTTP not allowed for external URLs",
			"Use https:// for security. HTTP is only allowed for localhost.")
	}

	// SSRF protection for directly-specified IPs
	if !isLocalhost {
		if ip := net.ParseIP(hostname); ip != nil && isInternalIP(ip) {
			return errors.NewUserErrorWithField("url", hostname,
				"Internal IP addresses not allowed",
				"Webhook URLs must point to external services")
		}
	}

	return nil
}

// isInternalIP checks if an IP is in a private/internal range.
func isInternalIP(ip net.IP) bool {
	privateRanges := []string{
		"10.0.0.0/8",     // RFC 1918
		"172.16.0.0/12",  // RFC 1918
		"192.168.0.0/16", // RFC 1918
		"127.0.0.0/8",    // Loopback (except explicit localhost check)
		"169.254.0.0/16", // Link-local
		"fc00::/7",       // IPv6 private
		"fe80::/10",      // IPv6 link-local
		"::1/128",        // IPv6 loopback
	}

	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(ip) {
			return true
		}
	}

	return false
}

// Package tui provides the terminal dashboard for Breathe.
package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI dashboard.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#10B981") // Green
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorAccent    = lipgloss.Color("#3B82F6") // Blue
	ColorBorder    = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the TUI.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// StyleSubtitle is used for subtitles and secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StylePattern is used for pattern names.
	StylePattern = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleDuration is used for duration values.
	StyleDuration = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	// StyleStreak is used for the streak counter.
	StyleStreak = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	// StyleWarning is used for warning messages.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleError is used for error messages.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleSuccess is used for success messages.
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// StyleHelp is used for help text at the bottom.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleMuted is used for muted text.
	StyleMuted = StyleSubtitle
)

// Box styles for different sections.
var (
	// StyleStatsBox is used for the statistics section.
	StyleStatsBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)

	// StyleStreakBox is used when a streak is alive.
	StyleStreakBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(1, 2).
			MarginBottom(1)

	// StyleSessionsBox is used for the recent sessions section.
	StyleSessionsBox = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(1, 2).
				MarginBottom(1)

	// StyleAchievementsBox is used for the achievements section.
	StyleAchievementsBox = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(1, 2).
				MarginBottom(1)
)

// ProgressBar renders a progress bar at the given completion
// percentage (0-100).
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	bar := progress.New(
		progress.WithSolidFill(string(ColorSuccess)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(ColorMuted)

	return bar.ViewAs(percentage / 100)
}

// FormatPatternSpec formats "name (i-h-e)" notation with styles.
func FormatPatternSpec(name, spec string) string {
	if spec == "" {
		return StylePattern.Render(name)
	}
	return StylePattern.Render(name) + " " + StyleSubtitle.Render(spec)
}

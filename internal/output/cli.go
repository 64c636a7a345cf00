package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stillpoint/breathe/internal/model"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	stylePattern = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleDuration = lipgloss.NewStyle().
			Bold(true)

	styleStreak = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarning)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	if c.IsColorEnabled() {
		c.Println(styleTitle.Render(text))
	} else {
		c.Println(text)
	}
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	if c.IsColorEnabled() {
		c.Println(styleSuccess.Render("✓ " + text))
	} else {
		c.Println("✓ " + text)
	}
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	if c.IsColorEnabled() {
		c.Println(styleWarning.Render("⚠ " + text))
	} else {
		c.Println("⚠ " + text)
	}
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	if c.IsColorEnabled() {
		c.Println(styleError.Render("✗ " + text))
	} else {
		c.Println("✗ " + text)
	}
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	if c.IsColorEnabled() {
		c.Println(styleMuted.Render(text))
	} else {
		c.Println(text)
	}
}

// PatternName formats a pattern name.
func (c *CLIFormatter) PatternName(name string) string {
	if c.IsColorEnabled() {
		return stylePattern.Render(name)
	}
	return name
}

// Duration formats a duration string.
func (c *CLIFormatter) Duration(text string) string {
	if c.IsColorEnabled() {
		return styleDuration.Render(text)
	}
	return text
}

// Streak formats a streak count.
func (c *CLIFormatter) Streak(days int) string {
	text := fmt.Sprintf("%d day streak", days)
	if days == 1 {
		text = "1 day streak"
	}
	if c.IsColorEnabled() {
		return styleStreak.Render(text)
	}
	return text
}

// PrintSessionSaved prints a finalized session summary.
func (c *CLIFormatter) PrintSessionSaved(record *model.SessionRecord) {
	if record.Completed {
		c.Success(fmt.Sprintf("Session complete: %s of %s breathing",
			FormatDuration(record.Duration()),
			c.PatternName(record.PatternName)))
	} else {
		c.Printf("Session saved: %s of %s breathing (ended early)\n",
			c.Duration(FormatDuration(record.Duration())),
			c.PatternName(record.PatternName))
	}
}

// PrintSessionDiscarded prints a note about a too-short session.
func (c *CLIFormatter) PrintSessionDiscarded() {
	c.Muted("Session too short to record.")
}

// PrintPatternList prints presets and custom patterns.
func (c *CLIFormatter) PrintPatternList(presets []model.Pattern, custom []*model.Pattern) {
	c.Title("Breathing patterns")
	c.Println()
	for _, p := range presets {
		c.Printf("  %s  %s\n", c.PatternName(padName(p.Name)), p.Spec())
	}
	for _, p := range custom {
		c.Printf("  %s  %s  %s\n", c.PatternName(padName(p.Name)), p.Spec(), c.note("custom"))
	}
}

// PrintStats prints the user's practice statistics.
func (c *CLIFormatter) PrintStats(stats *model.UserStats) {
	c.Title("Practice statistics")
	c.Println()
	c.Printf("  Sessions:       %d\n", stats.TotalSessions)
	c.Printf("  Total time:     %s\n", c.Duration(FormatDuration(time.Duration(stats.TotalMinutes)*time.Minute)))
	c.Printf("  Current streak: %s\n", c.Streak(stats.StreakDays))
	c.Printf("  Longest streak: %d days\n", stats.LongestStreak)
	if !stats.LastSessionDate.IsZero() {
		c.Printf("  Last session:   %s\n", FormatDate(stats.LastSessionDate))
	}
}

// PrintSessionHistory prints session records, newest first.
func (c *CLIFormatter) PrintSessionHistory(sessions []*model.SessionRecord) {
	if len(sessions) == 0 {
		c.Muted("No sessions recorded yet. Try: breathe start")
		return
	}

	c.Title("Session history")
	c.Println()
	for _, s := range sessions {
		marker := "·"
		if s.Completed {
			marker = "✓"
		}
		c.Printf("  %s %s  %s  %s  %s\n",
			marker,
			FormatTimeShort(s.StartedAt),
			c.PatternName(padName(s.PatternName)),
			c.Duration(FormatDuration(s.Duration())),
			c.note(s.ShortID()),
		)
	}
}

// PrintAchievements prints unlocked and locked achievements.
func (c *CLIFormatter) PrintAchievements(unlocked []*model.Achievement, lockedNames []string) {
	c.Title("Achievements")
	c.Println()
	if len(unlocked) == 0 {
		c.Muted("Nothing unlocked yet. Keep breathing.")
	}
	for _, a := range unlocked {
		c.Printf("  %s %s  %s\n", a.Icon, a.Name, c.note(FormatDate(a.UnlockedAt)))
	}
	if len(lockedNames) > 0 {
		c.Println()
		c.Muted(fmt.Sprintf("Locked: %s", strings.Join(lockedNames, ", ")))
	}
}

// PrintNewUnlocks announces achievements earned by the session just
// finished.
func (c *CLIFormatter) PrintNewUnlocks(unlocked []*model.Achievement) {
	for _, a := range unlocked {
		c.Success(fmt.Sprintf("Achievement unlocked: %s %s", a.Icon, a.Name))
	}
}

// PrintReminderList prints pending reminders.
func (c *CLIFormatter) PrintReminderList(reminders []*model.Reminder) {
	if len(reminders) == 0 {
		c.Muted("No reminders set. Try: breathe remind add \"morning practice\" tomorrow 7am")
		return
	}

	c.Title("Reminders")
	c.Println()
	for _, r := range reminders {
		repeat := ""
		if r.IsRecurring() {
			repeat = "  " + c.note(r.Repeat)
		}
		c.Printf("  [%s] %s  %s%s\n", r.ShortID(), FormatTimeShort(r.At), r.Title, repeat)
	}
}

// PrintWebhookList prints configured webhooks.
func (c *CLIFormatter) PrintWebhookList(webhooks []*model.Webhook) {
	if len(webhooks) == 0 {
		c.Muted("No webhooks configured. Try: breathe webhook add <name> <url>")
		return
	}

	c.Title("Webhooks")
	c.Println()
	for _, w := range webhooks {
		state := "enabled"
		if !w.Enabled {
			state = "disabled"
		}
		c.Printf("  %s  %s  %s  %s\n", padName(w.Name), w.Service, w.URL, c.note(state))
	}
}

// note renders muted inline text.
func (c *CLIFormatter) note(text string) string {
	if c.IsColorEnabled() {
		return styleMuted.Render(text)
	}
	return text
}

// padName pads a name for column alignment.
func padName(name string) string {
	return fmt.Sprintf("%-12s", name)
}

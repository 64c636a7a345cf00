package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/output"
	"github.com/stillpoint/breathe/internal/stats"
)

// StatsComponent displays the practice statistics summary.
type StatsComponent struct {
	Stats *model.UserStats
	Width int
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent(s *model.UserStats, width int) *StatsComponent {
	return &StatsComponent{
		Stats: s,
		Width: width,
	}
}

// View renders the stats component.
func (sc *StatsComponent) View() string {
	var content strings.Builder

	if sc.Stats == nil || sc.Stats.TotalSessions == 0 {
		content.WriteString(StyleMuted.Render("No practice yet"))
		content.WriteString("\n\n")
		content.WriteString(StyleSubtitle.Render("Run 'breathe start' to begin"))

		box := StyleStatsBox.Width(sc.Width - 4)
		return box.Render(content.String())
	}

	s := sc.Stats

	streakText := fmt.Sprintf("● %d day streak", s.StreakDays)
	if s.StreakDays == 0 {
		streakText = "○ streak broken"
	}
	content.WriteString(StyleStreak.Render(streakText))
	content.WriteString("\n\n")

	total := time.Duration(s.TotalMinutes) * time.Minute
	content.WriteString(fmt.Sprintf("%s sessions  •  %s of breathing",
		StyleDuration.Render(fmt.Sprintf("%d", s.TotalSessions)),
		StyleDuration.Render(output.FormatDuration(total))))
	content.WriteString("\n")
	content.WriteString(StyleSubtitle.Render(fmt.Sprintf("Longest streak: %d days", s.LongestStreak)))

	if !s.LastSessionDate.IsZero() {
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render(fmt.Sprintf("Last session: %s", output.FormatDate(s.LastSessionDate))))
	}

	box := StyleStatsBox
	if s.StreakDays > 0 {
		box = StyleStreakBox
	}
	return box.Width(sc.Width - 4).Render(content.String())
}

// SessionsComponent displays recent breathing sessions.
type SessionsComponent struct {
	Sessions []*model.SessionRecord
	Width    int
	Limit    int
}

// NewSessionsComponent creates a new sessions component.
func NewSessionsComponent(sessions []*model.SessionRecord, width, limit int) *SessionsComponent {
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return &SessionsComponent{
		Sessions: sessions,
		Width:    width,
		Limit:    limit,
	}
}

// View renders the sessions component.
func (sc *SessionsComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Recent Sessions"))
	content.WriteString("\n")

	if len(sc.Sessions) == 0 {
		content.WriteString(StyleMuted.Render("No sessions yet"))
	} else {
		for i, session := range sc.Sessions {
			if i > 0 {
				content.WriteString("\n")
			}
			content.WriteString(sc.renderSession(session))
		}
	}

	box := StyleSessionsBox.Width(sc.Width - 4)
	return box.Render(content.String())
}

func (sc *SessionsComponent) renderSession(s *model.SessionRecord) string {
	var sb strings.Builder

	marker := StyleSubtitle.Render("·")
	if s.Completed {
		marker = StyleSuccess.Render("✓")
	}

	sb.WriteString(marker)
	sb.WriteString(" ")
	sb.WriteString(FormatPatternSpec(s.PatternName, s.PatternSpec))
	sb.WriteString("  ")
	sb.WriteString(StyleDuration.Render(output.FormatDuration(s.Duration())))

	sb.WriteString("\n")
	sb.WriteString(StyleSubtitle.Render(fmt.Sprintf("  %s", output.FormatTimeShort(s.StartedAt))))

	return sb.String()
}

// AchievementsComponent displays unlocked achievements and progress
// toward the next one.
type AchievementsComponent struct {
	Unlocked map[string]bool
	Stats    *model.UserStats
	Width    int
}

// NewAchievementsComponent creates a new achievements component.
func NewAchievementsComponent(unlocked map[string]bool, s *model.UserStats, width int) *AchievementsComponent {
	return &AchievementsComponent{
		Unlocked: unlocked,
		Stats:    s,
		Width:    width,
	}
}

// View renders the achievements component.
func (ac *AchievementsComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Achievements"))
	content.WriteString("\n")

	var icons []string
	for _, def := range stats.Catalog() {
		if ac.Unlocked[def.Key] {
			icons = append(icons, def.Icon)
		}
	}
	if len(icons) == 0 {
		content.WriteString(StyleMuted.Render("Nothing unlocked yet"))
	} else {
		content.WriteString(strings.Join(icons, " "))
	}

	// Progress bar toward the nearest locked threshold
	if next, current, ok := ac.nextLocked(); ok {
		content.WriteString("\n\n")
		content.WriteString(StyleSubtitle.Render(fmt.Sprintf("Next: %s %s", next.Icon, next.Name)))
		content.WriteString("\n")

		barWidth := ac.Width - 12
		if barWidth < 10 {
			barWidth = 10
		}
		percentage := float64(current) / float64(next.Count) * 100
		content.WriteString(ProgressBar(percentage, barWidth))
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render(fmt.Sprintf("%d / %d %s", current, next.Count, next.Type)))
	}

	box := StyleAchievementsBox.Width(ac.Width - 4)
	return box.Render(content.String())
}

// nextLocked finds the locked achievement closest to completion.
func (ac *AchievementsComponent) nextLocked() (stats.Definition, int, bool) {
	if ac.Stats == nil {
		return stats.Definition{}, 0, false
	}

	var best stats.Definition
	bestCurrent := 0
	bestRatio := -1.0

	for _, def := range stats.Catalog() {
		if ac.Unlocked[def.Key] {
			continue
		}
		current := ac.counterFor(def.Type)
		ratio := float64(current) / float64(def.Count)
		if ratio > bestRatio {
			best = def
			bestCurrent = current
			bestRatio = ratio
		}
	}

	if bestRatio < 0 {
		return stats.Definition{}, 0, false
	}
	return best, bestCurrent, true
}

func (ac *AchievementsComponent) counterFor(t stats.ThresholdType) int {
	switch t {
	case stats.ThresholdSessions:
		return ac.Stats.TotalSessions
	case stats.ThresholdStreak:
		return ac.Stats.LongestStreak
	case stats.ThresholdMinutes:
		return ac.Stats.TotalMinutes
	default:
		return 0
	}
}

// RemindersComponent displays upcoming reminders.
type RemindersComponent struct {
	Reminders []*model.Reminder
	Width     int
}

// NewRemindersComponent creates a new reminders component.
func NewRemindersComponent(reminders []*model.Reminder, width int) *RemindersComponent {
	return &RemindersComponent{
		Reminders: reminders,
		Width:     width,
	}
}

// View renders the reminders component. Empty when no reminders are set.
func (rc *RemindersComponent) View() string {
	if len(rc.Reminders) == 0 {
		return ""
	}

	var content strings.Builder
	content.WriteString(StyleTitle.Render("Reminders"))
	content.WriteString("\n")

	for i, r := range rc.Reminders {
		if i > 0 {
			content.WriteString("\n")
		}
		when := output.FormatTimeShort(r.At)
		line := fmt.Sprintf("%s  %s", StyleSubtitle.Render(when), r.Title)
		if r.IsRecurring() {
			line += "  " + StyleSubtitle.Render("("+r.Repeat+")")
		}
		content.WriteString(line)
	}

	box := StyleSessionsBox.Width(rc.Width - 4)
	return box.Render(content.String())
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"b", "breathe"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}

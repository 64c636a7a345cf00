package engine

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Display handles the visual rendering of a breathing session.
type Display struct {
	Writer   io.Writer
	UseColor bool
}

// NewDisplay creates a new session display.
func NewDisplay() *Display {
	return &Display{
		Writer:   os.Stdout,
		UseColor: true,
	}
}

// Styles for session display.
var (
	inhaleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981")) // Green

	holdStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B")) // Yellow

	exhaleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")) // Blue

	countStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")) // Purple

	circleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")) // Purple

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")) // Gray

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6B7280")) // Gray
)

// FormatDuration formats a duration as MM:SS or HH:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// phaseStyle returns the render style for a phase.
func phaseStyle(p Phase) lipgloss.Style {
	switch p {
	case PhaseInhale:
		return inhaleStyle
	case PhaseHold:
		return holdStyle
	default:
		return exhaleStyle
	}
}

// Render renders the breathing display for one engine snapshot.
func (d *Display) Render(snap Snapshot, patternName string, paused bool) string {
	var output string

	// Phase header
	header := fmt.Sprintf("%s  %ds", snap.Phase.String(), snap.PhaseRemaining)
	if d.UseColor {
		output += phaseStyle(snap.Phase).Render(snap.Phase.String())
		output += "  " + countStyle.Render(fmt.Sprintf("%ds", snap.PhaseRemaining))
	} else {
		output += header
	}
	output += "\n\n"

	// Breathing circle grows through inhale, shrinks through exhale
	circle := d.renderCircle(snap)
	if d.UseColor {
		output += circleStyle.Render(circle)
	} else {
		output += circle
	}
	output += "\n\n"

	// Session progress
	info := fmt.Sprintf("%s / %s  ·  %s  ·  cycle %d",
		FormatDuration(time.Duration(snap.Elapsed)*time.Second),
		FormatDuration(time.Duration(snap.Target)*time.Second),
		patternName,
		snap.Cycle,
	)
	if d.UseColor {
		output += infoStyle.Render(info)
	} else {
		output += info
	}
	output += "\n\n"

	// Controls hint
	var hint string
	if paused {
		hint = "[PAUSED] Press SPACE to resume, Q to end"
	} else {
		hint = "Press SPACE to pause, Q to end early"
	}
	if d.UseColor {
		output += hintStyle.Render(hint)
	} else {
		output += hint
	}

	return output
}

// renderCircle draws a dot row whose width follows the breath: it
// fills during inhale, stays full during hold, and empties during
// exhale.
func (d *Display) renderCircle(snap Snapshot) string {
	const width = 20

	var progress float64
	switch snap.Phase {
	case PhaseInhale:
		progress = phaseProgress(snap)
	case PhaseHold:
		progress = 1.0
	default:
		progress = 1.0 - phaseProgress(snap)
	}

	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 1 {
		filled = 1
	}

	return "( " + strings.Repeat("●", filled) + strings.Repeat("·", width-filled) + " )"
}

// phaseProgress returns how far through the current phase we are.
func phaseProgress(snap Snapshot) float64 {
	if snap.PhaseLength <= 0 {
		return 1.0
	}
	return float64(snap.PhaseLength-snap.PhaseRemaining) / float64(snap.PhaseLength)
}

// ClearScreen clears the terminal screen.
func (d *Display) ClearScreen() {
	fmt.Fprint(d.Writer, "\033[H\033[2J")
}

// MoveCursorHome moves cursor to home position.
func (d *Display) MoveCursorHome() {
	fmt.Fprint(d.Writer, "\033[H")
}

// RenderComplete renders the end-of-session summary.
func (d *Display) RenderComplete(result Result, patternName string) string {
	var output string

	var header string
	if result.Completed {
		header = "Session complete. Well done."
	} else {
		header = "Session ended early."
	}
	if d.UseColor {
		output += inhaleStyle.Render(header)
	} else {
		output += header
	}
	output += "\n\n"

	stats := fmt.Sprintf("Pattern: %s\n", patternName)
	stats += fmt.Sprintf("Time breathed: %s", FormatDuration(time.Duration(result.ElapsedSeconds)*time.Second))
	if d.UseColor {
		output += infoStyle.Render(stats)
	} else {
		output += stats
	}

	return output
}

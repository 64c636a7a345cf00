// Package output renders breathe command results for terminals and
// machine consumers.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Format selects how command results are rendered.
type Format string

const (
	FormatCLI   Format = "cli"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ColorMode controls ANSI color usage.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Formatter is the shared base for the CLI and JSON renderers. It owns
// the destination writer and the color decision.
type Formatter struct {
	Writer    io.Writer
	Format    Format
	ColorMode ColorMode
}

// NewFormatter returns a formatter writing colored CLI output to stdout.
func NewFormatter() *Formatter {
	return &Formatter{
		Writer:    os.Stdout,
		Format:    FormatCLI,
		ColorMode: ColorAuto,
	}
}

// IsColorEnabled reports whether output should carry ANSI colors. In
// auto mode color is used only when the writer is a terminal.
func (f *Formatter) IsColorEnabled() bool {
	switch f.ColorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	w, ok := f.Writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
}

func (f *Formatter) Print(a ...interface{}) {
	fmt.Fprint(f.Writer, a...)
}

func (f *Formatter) Println(a ...interface{}) {
	fmt.Fprintln(f.Writer, a...)
}

func (f *Formatter) Printf(format string, a ...interface{}) {
	fmt.Fprintf(f.Writer, format, a...)
}

// JSON writes v as indented JSON.
func (f *Formatter) JSON(v interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatDuration renders a duration the way session lengths read
// naturally: "45s", "4m 30s", "1h 15m".
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", totalSeconds)
	case d < time.Hour:
		m, s := totalSeconds/60, totalSeconds%60
		if s > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h, m := totalSeconds/3600, (totalSeconds/60)%60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}

// FormatTime renders a full local timestamp.
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatTimeShort renders a local timestamp without seconds.
func FormatTimeShort(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// FormatDate renders the local calendar date.
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// FormatTimeOnly renders the local clock time.
func FormatTimeOnly(t time.Time) string {
	return t.Local().Format("15:04")
}

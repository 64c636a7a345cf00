// Package logging wraps log/slog with a process-wide logger shared by
// the breathe CLI and daemon. Diagnostics go to stderr so they never
// mix with command output on stdout.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger *slog.Logger
	loggerMu      sync.RWMutex

	// Debug mirrors whether Init was called at debug level.
	Debug bool
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Config describes the handler the global logger is built with.
type Config struct {
	Level     slog.Level // minimum level to emit
	JSON      bool       // JSON handler instead of text
	Output    io.Writer  // destination, stderr when nil
	AddSource bool       // annotate records with file:line
}

// DefaultConfig is text at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Output: os.Stderr,
	}
}

// DebugConfig is JSON at debug level with source locations, used by
// --debug and the daemon log file.
func DebugConfig() Config {
	return Config{
		Level:     slog.LevelDebug,
		JSON:      true,
		Output:    os.Stderr,
		AddSource: true,
	}
}

// Init replaces the global logger.
func Init(cfg Config) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	Debug = cfg.Level == slog.LevelDebug
}

// InitDebug switches the global logger to DebugConfig.
func InitDebug() {
	Init(DebugConfig())
}

// Logger returns the current global logger.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// With returns a child logger carrying extra attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// WithGroup returns a child logger that nests attributes under name.
func WithGroup(name string) *slog.Logger {
	return Logger().WithGroup(name)
}

// Leveled helpers on the global logger. DebugLog avoids colliding
// with the Debug flag above.

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func DebugLog(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Logger().InfoContext(ctx, msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	Logger().DebugContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Logger().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Logger().ErrorContext(ctx, msg, args...)
}

// Attribute keys shared across packages so log lines stay queryable.
const (
	KeyOperation   = "op"
	KeyDuration    = "duration_ms"
	KeyError       = "error"
	KeyPattern     = "pattern"
	KeyPhase       = "phase"
	KeySessionID   = "session_id"
	KeyReminderID  = "reminder_id"
	KeyWebhook     = "webhook"
	KeyAchievement = "achievement"
	KeyStreak      = "streak"
	KeyStatus      = "status"
	KeyCount       = "count"
)

// LogOperation emits a debug record tagged with the operation name.
func LogOperation(op string, args ...any) {
	Logger().Debug("operation", append([]any{KeyOperation, op}, args...)...)
}

// Package errors defines the error vocabulary of the breathe CLI.
// Errors fall into three families: UserError for mistakes the user can
// correct, SystemError for environment failures, and RecoverableError
// for transient conditions that commands retry automatically.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels for conditions commands test against with errors.Is.
var (
	ErrInvalidPattern     = errors.New("invalid breathing pattern")
	ErrPatternNotFound    = errors.New("pattern not found")
	ErrPatternExists      = errors.New("pattern already exists")
	ErrNotPatternOwner    = errors.New("pattern belongs to another user")
	ErrPresetImmutable    = errors.New("built-in patterns cannot be changed")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFinalized   = errors.New("session record already finalized")
	ErrSessionNotComplete = errors.New("session record is not finalized")
	ErrInvalidTarget      = errors.New("invalid session duration")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidDeadline    = errors.New("invalid reminder time")
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrWebhookNotFound    = errors.New("webhook not found")
	ErrInvalidURL         = errors.New("invalid URL")
	ErrEngineTerminal     = errors.New("engine already finished")
	ErrDiskFull           = errors.New("disk full")
	ErrDatabaseCorrupted  = errors.New("database corrupted")
	ErrStatsConflict      = errors.New("stats updated concurrently")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrTimeout            = errors.New("operation timed out")
	ErrPermissionDenied   = errors.New("permission denied")
)

// UserError is a mistake the user can correct: a malformed pattern
// spec, an unknown preset name, a reminder time in the past. The
// suggestion is shown alongside the message.
type UserError struct {
	Message    string
	Suggestion string
	Field      string
	Value      string
}

func (e *UserError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return e.Message
}

func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// NewUserErrorWithField attaches the offending input so the message
// can quote it back.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
		Field:      field,
		Value:      value,
	}
}

// SystemError is an environment failure the user cannot fix from
// inside breathe: a full disk, an unwritable database directory.
type SystemError struct {
	Message string
	Cause   error
	Op      string
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause}
}

// NewSystemErrorWithOp names the operation that hit the failure.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause, Op: op}
}

// RecoverableError is a transient failure worth retrying, such as a
// stats write conflict or a webhook delivery timeout. It tracks how
// many attempts have been spent.
type RecoverableError struct {
	Message    string
	Cause      error
	RetryCount int
	MaxRetries int
	CanRetry   bool
}

func (e *RecoverableError) Error() string {
	if e.RetryCount > 0 {
		return fmt.Sprintf("%s (attempt %d/%d)", e.Message, e.RetryCount, e.MaxRetries)
	}
	return e.Message
}

func (e *RecoverableError) Unwrap() error {
	return e.Cause
}

func NewRecoverableError(message string, cause error, maxRetries int) *RecoverableError {
	return &RecoverableError{
		Message:    message,
		Cause:      cause,
		MaxRetries: maxRetries,
		CanRetry:   true,
	}
}

// IncrementRetry consumes one attempt and clears CanRetry once the
// budget is spent.
func (e *RecoverableError) IncrementRetry() {
	e.RetryCount++
	e.CanRetry = e.RetryCount < e.MaxRetries
}

// Family predicates over wrapped chains.

func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

func IsRecoverableError(err error) bool {
	var re *RecoverableError
	return errors.As(err, &re)
}

// AsUserError pulls the UserError out of a wrapped chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError pulls the SystemError out of a wrapped chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// AsRecoverableError pulls the RecoverableError out of a wrapped chain.
func AsRecoverableError(err error) (*RecoverableError, bool) {
	var re *RecoverableError
	ok := errors.As(err, &re)
	return re, ok
}

// Wrap prefixes err with context, passing nil through.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
